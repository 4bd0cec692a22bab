package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"MimiPlatform/internal/config"
)

var DB *gorm.DB

// Connect opens the configured database and stores it in DB.
func Connect(cfg config.DatabaseConfig, log *slog.Logger) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	if cfg.UsesPostgres() {
		log.Info("database connected", "driver", "postgres")
	} else {
		log.Info("database connected", "driver", "sqlite", "path", cfg.SQLitePath)
	}
	DB = db
	return nil
}

// Open returns a Postgres handle when configured, SQLite otherwise.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if cfg.UsesPostgres() {
		dialector = postgres.Open(cfg.DSN())
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if !cfg.UsesPostgres() {
		// sqlite allows one writer; a single connection also keeps
		// in-memory databases alive and shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
