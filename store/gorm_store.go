package store

import (
	"context"
	"time"

	"github.com/harborchat/chat_backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of the shared gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *GormStore) UpsertMembership(ctx context.Context, userID, roomID string) error {
	member := models.RoomMember{
		RoomID:   roomID,
		UserID:   userID,
		IsActive: true,
		LastSeen: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "last_seen", "updated_at"}),
	}).Create(&member).Error
}

func (s *GormStore) DeactivateMembership(ctx context.Context, userID, roomID string) error {
	return s.db.WithContext(ctx).Model(&models.RoomMember{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Update("is_active", false).Error
}

func (s *GormStore) TouchLastSeen(ctx context.Context, userID, roomID string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.RoomMember{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Update("last_seen", at).Error
}

func (s *GormStore) Membership(ctx context.Context, userID, roomID string) (models.RoomMember, error) {
	var member models.RoomMember
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&member).Error
	return member, err
}

func (s *GormStore) ActiveMemberIDs(ctx context.Context, roomID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.RoomMember{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *GormStore) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// Query is newest-first for the LIMIT; callers want oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *GormStore) UnreadCount(ctx context.Context, roomID, userID string, after time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("room_id = ? AND created_at > ? AND user_id <> ?", roomID, after, userID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) User(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	return user, err
}

func (s *GormStore) SaveUserStats(ctx context.Context, userID string, messageCount int, trustScore float64) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"message_count": messageCount,
			"trust_score":   trustScore,
		}).Error
}
