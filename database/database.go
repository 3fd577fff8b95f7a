package database

import (
	"fmt"
	"log"

	"github.com/harborchat/chat_backend/config"
	"github.com/harborchat/chat_backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect establishes a connection to the database
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate automatically migrates the database schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}, &models.RoomMember{}); err != nil {
		return err
	}
	log.Println("Database migration completed")
	return nil
}
