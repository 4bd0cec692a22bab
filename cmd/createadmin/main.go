// Command createadmin creates the staff account named by ADMIN_USERNAME,
// ADMIN_EMAIL and ADMIN_PASSWORD if it does not exist yet.
package main

import (
	"log"
	"os"

	"MimiPlatform/internal/config"
	"MimiPlatform/internal/database"
	"MimiPlatform/internal/logging"
	"MimiPlatform/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	logger := logging.New(cfg.Logging)

	if cfg.Admin.Password == "" {
		logger.Error("ADMIN_PASSWORD environment variable not set")
		os.Exit(1)
	}

	if err := database.Connect(cfg.Database, logger); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	created, err := services.NewAccountService(database.DB).EnsureAdmin(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logger.Error("failed to create admin", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info("admin account created", "username", cfg.Admin.Username, "email", cfg.Admin.Email)
	} else {
		logger.Info("admin account already exists", "email", cfg.Admin.Email)
	}
}
