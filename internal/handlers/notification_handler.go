package handlers

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/middleware"
)

// GetNotifications supports ?limit=, ?offset= and ?unread_only=true.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	userID := middleware.Principal(c).UserID
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	unreadOnly := c.QueryBool("unread_only", false)

	notifications, unread, err := h.Notifications.List(userID, unreadOnly, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"notifications": notifications,
		"count":         len(notifications),
		"unread_count":  unread,
	})
}

func (h *Handler) MarkNotificationAsRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	notification, err := h.Notifications.MarkAsRead(middleware.Principal(c).UserID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Notification marked as read",
		"notification": notification,
	})
}

func (h *Handler) MarkAllNotificationsAsRead(c *fiber.Ctx) error {
	n, err := h.Notifications.MarkAllAsRead(middleware.Principal(c).UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": n,
	})
}
