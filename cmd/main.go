package main

import (
	"fmt"
	"log"
	"os"

	"MimiPlatform/internal/config"
	"MimiPlatform/internal/database"
	"MimiPlatform/internal/handlers"
	"MimiPlatform/internal/logging"
	"MimiPlatform/internal/routes"
	"MimiPlatform/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	logger := logging.New(cfg.Logging)

	if err := database.Connect(cfg.Database, logger); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrated")

	media, err := services.NewMediaStore(cfg.Media, logger)
	if err != nil {
		logger.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	db := database.DB
	notify := services.NewNotificationService(db, services.NewMailer(cfg.Email, logger), logger)
	accounts := services.NewAccountService(db)
	h := &handlers.Handler{
		Accounts:      accounts,
		Tokens:        services.NewTokenService(db, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		Catalog:       services.NewCatalogService(db, media, logger),
		Jobs:          services.NewJobService(db, notify),
		Bookings:      services.NewBookingService(db),
		Escrow:        services.NewEscrowService(db, notify),
		Wallet:        services.NewWalletService(db, services.NewPaymentGateway(cfg.Paystack, logger), notify, logger),
		Chat:          services.NewChatService(db, notify),
		Notifications: notify,
		Log:           logger,
	}

	app := routes.NewApp(cfg, h, true)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Mimi server starting", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
