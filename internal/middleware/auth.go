package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
	"MimiPlatform/internal/services"
)

// UserLookup resolves the user behind a token.
type UserLookup interface {
	GetUser(id uint) (*models.User, error)
}

// Protected requires a valid bearer access token and stores the caller in
// c.Locals("user_id"), c.Locals("role") and c.Locals("is_staff").
func Protected(tokens *services.TokenService, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header must be a bearer token",
			})
		}

		claims, err := tokens.Parse(tokenString, services.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		user, err := users.GetUser(claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "User not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load user",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("role", user.Role)
		c.Locals("is_staff", user.IsStaff)
		return c.Next()
	}
}

// RequireCapability rejects callers whose role does not grant c.
func RequireCapability(capability authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Principal(c).Can(capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// Principal returns the authenticated caller, or the zero Principal on
// public routes.
func Principal(c *fiber.Ctx) authz.Principal {
	userID, _ := c.Locals("user_id").(uint)
	role, _ := c.Locals("role").(models.Role)
	isStaff, _ := c.Locals("is_staff").(bool)
	return authz.Principal{UserID: userID, Role: role, IsStaff: isStaff}
}
