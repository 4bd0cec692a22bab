package routes

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/handlers"
	"MimiPlatform/internal/middleware"
)

func setupCatalogRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	providers := api.Group("/providers")
	providers.Get("/", h.ListProviders)
	// "me" is registered before ":slug" so it is never read as a slug.
	providers.Get("/me", protected, middleware.RequireCapability(authz.ProfileManage), h.GetMyProviderProfile)
	providers.Patch("/me", protected, middleware.RequireCapability(authz.ProfileManage), h.UpdateMyProviderProfile)
	providers.Post("/me/avatar", protected, middleware.RequireCapability(authz.ProfileManage), h.UploadAvatar)
	providers.Get("/:slug", h.GetProvider)

	api.Get("/provider-services", h.ListProviderServices)
	api.Post("/provider-services", protected, middleware.RequireCapability(authz.ServiceManage), h.CreateProviderService)

	api.Get("/categories", h.ListCategories)
	api.Post("/categories", protected, middleware.RequireCapability(authz.CategoryManage), h.CreateCategory)
}
