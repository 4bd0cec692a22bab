package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/services"
)

var (
	notFoundErrors = []error{
		services.ErrUserNotFound, services.ErrProviderNotFound, services.ErrServiceNotFound,
		services.ErrCategoryNotFound, services.ErrJobNotFound, services.ErrMilestoneNotFound,
		services.ErrEscrowNotFound, services.ErrBookingNotFound, services.ErrTransactionNotFound,
		services.ErrNotificationNotFound,
	}
	badRequestErrors = []error{
		services.ErrAlreadyFunded, services.ErrInsufficientFunds, services.ErrMilestoneLocked,
		services.ErrMilestoneIncomplete, services.ErrEscrowNotHeld, services.ErrInvalidStatus,
		services.ErrInvalidAmount, services.ErrInvalidRole, services.ErrBookingConfirmed,
		services.ErrDepositNotPending, services.ErrPaymentNotVerified, services.ErrEmptyMessage,
	}
	conflictErrors = []error{
		services.ErrUsernameTaken, services.ErrEmailTaken, services.ErrBookingExists,
		services.ErrServiceExists, services.ErrCategoryExists,
	}
)

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch {
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrMediaUnavailable):
		return fiber.StatusServiceUnavailable
	case matchesAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchesAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case matchesAny(err, conflictErrors):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail writes err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		h.Log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
