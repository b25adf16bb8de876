package handlers

import (
	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CreateDirectRoomHandler resolves (and on first contact creates) the room with recipient_id.
func CreateDirectRoomHandler(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateDirectRoomRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.RecipientID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Recipient ID required"})
		}

		res, err := chat.ResolveDirectRoom(c.UserContext(), SessionFrom(c).UserID, req.RecipientID)
		if err != nil {
			return respondError(c, err)
		}
		if res.IsNew {
			return c.Status(fiber.StatusCreated).JSON(res)
		}
		return c.JSON(res)
	}
}

func GetRoomHandler(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roomID, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		detail, err := chat.RoomDetail(c.UserContext(), roomID, SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(detail)
	}
}

func ListMessagesHandler(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roomID, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		msgs, err := chat.ListByRoom(c.UserContext(), roomID, SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		if msgs == nil {
			msgs = []models.Message{}
		}
		return c.JSON(msgs)
	}
}

// SendMessageHandler only persists; connected clients get the message from the change feed.
func SendMessageHandler(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roomID, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var req models.SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		msg, err := chat.Send(c.UserContext(), roomID, SessionFrom(c).UserID, req.Text)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	}
}

// ListConversationsHandler returns the caller's conversation list with counterpart presence.
func ListConversationsHandler(conversations *services.ConversationService, presence *Presence) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := conversations.List(c.UserContext(), SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		presence.FillStatus(list)
		return c.JSON(list)
	}
}
