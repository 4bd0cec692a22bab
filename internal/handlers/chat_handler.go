package handlers

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/middleware"
	"MimiPlatform/internal/models"
)

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

type messageResponse struct {
	models.Message
	SenderName string `json:"sender_name"`
}

func toMessageResponse(m models.Message) messageResponse {
	return messageResponse{Message: m, SenderName: m.SenderName()}
}

func (h *Handler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.Chat.ListRooms(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rooms)
}

// ListMessages serves the chat of the job given as :room_id.
func (h *Handler) ListMessages(c *fiber.Ctx) error {
	jobID, err := paramID(c, "room_id")
	if err != nil {
		return h.fail(c, err)
	}
	messages, err := h.Chat.ListMessages(middleware.Principal(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(out)
}

func (h *Handler) SendMessage(c *fiber.Ctx) error {
	jobID, err := paramID(c, "room_id")
	if err != nil {
		return h.fail(c, err)
	}
	var req SendMessageRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	message, err := h.Chat.SendMessage(middleware.Principal(c), jobID, req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(*message))
}

func (h *Handler) MarkMessagesRead(c *fiber.Ctx) error {
	jobID, err := paramID(c, "room_id")
	if err != nil {
		return h.fail(c, err)
	}
	n, err := h.Chat.MarkRead(middleware.Principal(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"marked_read": n,
	})
}
