package models

import (
	"time"
)

// Message types accepted on the wire.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
)

type Message struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"size:16;not null;default:'text'" json:"type"`
	RoomID    string    `gorm:"size:64;index" json:"room_id"`
	UserID    string    `gorm:"size:64" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
