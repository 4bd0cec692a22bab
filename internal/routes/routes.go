package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/handlers"
	"MimiPlatform/internal/middleware"
)

// SetupRoutes mounts the whole API under /api. authRateLimit caps requests
// per minute per IP on the credential endpoints; 0 disables the limit.
func SetupRoutes(app *fiber.App, h *handlers.Handler, authRateLimit int) {
	api := app.Group("/api")
	protected := middleware.Protected(h.Tokens, h.Accounts)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "Mimi",
		})
	})

	auth := api.Group("/auth")
	if authRateLimit > 0 {
		auth.Use(limiter.New(limiter.Config{
			Max:        authRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later",
				})
			},
		}))
	}
	auth.Post("/register", h.Register)
	auth.Post("/token", h.Login)
	auth.Post("/token/refresh", h.RefreshToken)
	auth.Post("/logout", protected, h.Logout)
	auth.Get("/me", protected, h.Me)

	api.Get("/provider-only", protected, middleware.RequireCapability(authz.ProviderArea), h.ProviderOnly)
	api.Get("/customer-only", protected, middleware.RequireCapability(authz.CustomerArea), h.CustomerOnly)

	setupCatalogRoutes(api, h, protected)
	setupJobRoutes(api, h, protected)
	setupEscrowRoutes(api, h, protected)
	setupChatRoutes(api, h, protected)
	setupNotificationRoutes(api, h, protected)
}
