package routes

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/handlers"
	"MimiPlatform/internal/middleware"
)

func setupEscrowRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	escrows := api.Group("/escrows", protected)
	escrows.Get("/", h.ListEscrows)
	escrows.Post("/:id/release", middleware.RequireCapability(authz.EscrowRelease), h.ReleaseEscrow)
	escrows.Post("/:id/refund", middleware.RequireCapability(authz.EscrowRefund), h.RefundEscrow)

	wallet := api.Group("/wallet", protected)
	wallet.Get("/", h.GetWallet)
	wallet.Get("/transactions", h.ListTransactions)
	wallet.Post("/deposits", h.InitiateDeposit)
	wallet.Post("/deposits/:reference/verify", h.VerifyDeposit)
}
