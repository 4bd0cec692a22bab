package handlers

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/middleware"
	"MimiPlatform/internal/models"
	"MimiPlatform/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=customer provider"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":                  user.ID,
		"username":            user.Username,
		"email":               user.Email,
		"phone":               user.Phone,
		"role":                user.Role,
		"verification_status": user.VerificationStatus,
		"is_staff":            user.IsStaff,
		"created_at":          user.CreatedAt,
	}
}

// Register creates a customer or provider account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.Accounts.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.Log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    userResponse(user),
	})
}

// Login exchanges credentials for an access/refresh token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.Accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	pair, err := h.Tokens.Issue(user)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(pair)
}

func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	access, err := h.Tokens.Refresh(req.Refresh)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"access": access,
	})
}

// Logout revokes the refresh token so it can no longer be exchanged.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.Tokens.Revoke(req.Refresh); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.Accounts.GetUser(middleware.Principal(c).UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"user": userResponse(user),
	})
}

func (h *Handler) ProviderOnly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Hello provider!",
	})
}

func (h *Handler) CustomerOnly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Hello customer!",
	})
}
