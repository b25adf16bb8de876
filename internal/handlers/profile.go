package handlers

import (
	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := users.GetProfile(c.UserContext(), SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateRoleHandler sets senior, children or helper and returns tokens carrying the new role.
func UpdateRoleHandler(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body models.UpdateRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		res, err := users.UpdateRole(c.UserContext(), SessionFrom(c), body.Role)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
