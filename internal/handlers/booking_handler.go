package handlers

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/middleware"
)

type CreateBookingRequest struct {
	Job uint `json:"job" validate:"required"`
}

func (h *Handler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.Bookings.ListBookings(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(bookings)
}

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	booking, err := h.Bookings.CreateBooking(middleware.Principal(c), req.Job)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *Handler) ConfirmBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	booking, err := h.Bookings.ConfirmBooking(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(booking)
}
