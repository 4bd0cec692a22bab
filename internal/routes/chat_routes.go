package routes

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/handlers"
)

// Chat rooms are addressed by job id.
func setupChatRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	chat := api.Group("/chat/rooms", protected)
	chat.Get("/", h.ListRooms)
	chat.Get("/:room_id/messages", h.ListMessages)
	chat.Post("/:room_id/messages/send", h.SendMessage)
	chat.Post("/:room_id/messages/read", h.MarkMessagesRead)
}

func setupNotificationRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	notifications := api.Group("/notifications", protected)
	notifications.Get("/", h.GetNotifications)
	notifications.Put("/read-all", h.MarkAllNotificationsAsRead)
	notifications.Put("/:id/read", h.MarkNotificationAsRead)
}
