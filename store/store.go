package store

import (
	"context"
	"time"

	"github.com/harborchat/chat_backend/models"
)

// Store is the persistence gateway the real-time core talks to. The
// core never assumes a call succeeded: every method can fail and the
// caller decides whether the failure is fatal for the operation or
// just logged (chat keeps serving when storage hiccups).
type Store interface {
	ListRooms(ctx context.Context) ([]models.Room, error)

	// UpsertMembership creates the (userID, roomID) membership on first
	// join or reactivates it with a fresh LastSeen on a later one.
	UpsertMembership(ctx context.Context, userID, roomID string) error
	DeactivateMembership(ctx context.Context, userID, roomID string) error
	TouchLastSeen(ctx context.Context, userID, roomID string, at time.Time) error
	Membership(ctx context.Context, userID, roomID string) (models.RoomMember, error)
	ActiveMemberIDs(ctx context.Context, roomID string) ([]string, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	// RecentMessages returns up to limit messages oldest-to-newest.
	RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error)
	// UnreadCount counts messages in roomID created after the given
	// instant, excluding those authored by userID.
	UnreadCount(ctx context.Context, roomID, userID string, after time.Time) (int64, error)

	User(ctx context.Context, userID string) (models.User, error)
	SaveUserStats(ctx context.Context, userID string, messageCount int, trustScore float64) error
}
