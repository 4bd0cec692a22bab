package handlers

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/middleware"
)

// ListEscrows supports an optional ?job=<id> filter.
func (h *Handler) ListEscrows(c *fiber.Ctx) error {
	jobID := c.QueryInt("job", 0)
	if jobID < 0 {
		return badRequest(c, "Invalid job")
	}
	escrows, err := h.Escrow.ListEscrows(middleware.Principal(c), uint(jobID))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"escrows": escrows,
		"count":   len(escrows),
	})
}

func (h *Handler) ReleaseEscrow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	escrow, err := h.Escrow.ReleaseEscrow(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("escrow released", "escrow_id", escrow.ID, "amount", escrow.Amount.StringFixed(2))
	return c.JSON(fiber.Map{
		"message": "Funds released to provider",
		"escrow":  escrow,
	})
}

func (h *Handler) RefundEscrow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	escrow, err := h.Escrow.RefundEscrow(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("escrow refunded", "escrow_id", escrow.ID, "amount", escrow.Amount.StringFixed(2))
	return c.JSON(fiber.Map{
		"message": "Funds refunded to customer",
		"escrow":  escrow,
	})
}
