package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/services"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Accounts      *services.AccountService
	Tokens        *services.TokenService
	Catalog       *services.CatalogService
	Jobs          *services.JobService
	Bookings      *services.BookingService
	Escrow        *services.EscrowService
	Wallet        *services.WalletService
	Chat          *services.ChatService
	Notifications *services.NotificationService

	Log *slog.Logger
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
