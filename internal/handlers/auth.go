package handlers

import (
	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SocialLoginHandler exchanges a provider access token for our token pair.
func SocialLoginHandler(users *services.UserService, provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SocialLoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		res, err := users.SocialLogin(c.UserContext(), provider, req.AccessToken)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func RefreshHandler(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RefreshRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token required"})
		}
		res, err := users.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func LogoutHandler(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := users.Logout(c.UserContext(), SessionFrom(c)); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
