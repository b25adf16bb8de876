package handlers

import (
	"strings"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const sessionKey = "session"

// WSUpgradeMiddleware upgrades the connection to WebSocket
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// AuthMiddleware verifies the access token and stores the caller's session in locals.
// The token comes from the Authorization header or, for websockets, the access_token query param.
func AuthMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("access_token")
		if token == "" {
			token, _ = strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		session, err := users.Authenticate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// SessionFrom returns the session AuthMiddleware stored, or nil on public routes.
func SessionFrom(c *fiber.Ctx) *models.Session {
	s, _ := c.Locals(sessionKey).(*models.Session)
	return s
}
