package models

import (
	"time"
)

type Room struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	MaxParticipants int       `gorm:"not null;default:10" json:"max_participants"`
	CreatedBy       string    `gorm:"size:64" json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Users           []User    `gorm:"many2many:room_members;" json:"users,omitempty"`
	Messages        []Message `json:"messages,omitempty"`
}

// RoomMember records a user's durable relationship with a room.
// IsActive drives the recent-chats sidebar; LastSeen drives unread
// counts (messages created after LastSeen, excluding the member's own).
type RoomMember struct {
	RoomID    string    `gorm:"primaryKey;size:64" json:"room_id"`
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
