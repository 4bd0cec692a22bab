package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"MimiPlatform/internal/config"
	"MimiPlatform/internal/models"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RevokedToken{},
		&models.Wallet{},
		&models.Transaction{},
		&models.ProviderProfile{},
		&models.ServiceCategory{},
		&models.ProviderService{},
		&models.Job{},
		&models.JobStatusLog{},
		&models.JobMilestone{},
		&models.Booking{},
		&models.Escrow{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// OpenTest returns a migrated in-memory SQLite database private to name.
func OpenTest(name string) (*gorm.DB, error) {
	db, err := Open(config.DatabaseConfig{
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(name, "/", "_")),
		LogLevel:   "silent",
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
