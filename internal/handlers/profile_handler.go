package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"MimiPlatform/internal/middleware"
	"MimiPlatform/internal/services"
)

type UpdateProviderProfileRequest struct {
	Bio      *string `json:"bio"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

type CreateServiceRequest struct {
	Category    uint            `json:"category" validate:"required"`
	Title       string          `json:"title" validate:"required,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (h *Handler) ListProviders(c *fiber.Ctx) error {
	profiles, err := h.Catalog.ListProviders()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profiles)
}

func (h *Handler) GetProvider(c *fiber.Ctx) error {
	profile, err := h.Catalog.GetProviderBySlug(c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) GetMyProviderProfile(c *fiber.Ctx) error {
	profile, err := h.Catalog.MyProfile(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) UpdateMyProviderProfile(c *fiber.Ctx) error {
	var req UpdateProviderProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	profile, err := h.Catalog.UpdateProfile(middleware.Principal(c), services.ProfileUpdate{
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// UploadAvatar accepts a multipart "avatar" image.
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "No avatar file uploaded")
	}
	if file.Size > 5*1024*1024 {
		return badRequest(c, "Avatar must be 5MB or smaller")
	}

	profile, err := h.Catalog.SetAvatar(c.UserContext(), middleware.Principal(c), file)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Avatar updated successfully",
		"avatar":  profile.Avatar,
	})
}

// ListProviderServices supports an optional ?category=<id> filter.
func (h *Handler) ListProviderServices(c *fiber.Ctx) error {
	categoryID := c.QueryInt("category", 0)
	if categoryID < 0 {
		return badRequest(c, "Invalid category")
	}
	list, err := h.Catalog.ListServices(uint(categoryID))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) CreateProviderService(c *fiber.Ctx) error {
	var req CreateServiceRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if !req.Price.IsPositive() {
		return badRequest(c, "Price must be greater than zero")
	}

	service, err := h.Catalog.CreateService(middleware.Principal(c), services.ServiceInput{
		CategoryID:  req.Category,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.Catalog.ListCategories()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(categories)
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	category, err := h.Catalog.CreateCategory(middleware.Principal(c), req.Name, req.Description)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
