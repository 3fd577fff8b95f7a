package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	DisplayName  string    `gorm:"size:255;not null" json:"display_name"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	TrustScore   float64   `gorm:"not null;default:50" json:"trust_score"`
	MessageCount int       `gorm:"not null;default:0" json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Rooms        []Room    `gorm:"many2many:room_members;" json:"-"`
}

// BeforeSave hashes the password before saving to the database
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && !isBcryptHash(u.Password) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// ValidatePassword checks if the provided password matches the stored hash
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// isBcryptHash guards against double-hashing when a loaded user is
// saved back for a message-count or trust-score update.
func isBcryptHash(s string) bool {
	return len(s) == 60 && (s[:4] == "$2a$" || s[:4] == "$2b$" || s[:4] == "$2y$")
}
