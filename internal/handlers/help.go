package handlers

import (
	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func CategoriesHandler(c *fiber.Ctx) error {
	return c.JSON(services.HelpCategories)
}

func CreateRequestHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in models.HelpRequestInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		req, err := help.CreateRequest(c.UserContext(), SessionFrom(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

func ListRequestsHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqs, err := help.ListPublishedRequests(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		if reqs == nil {
			reqs = []models.HelpRequest{}
		}
		return c.JSON(reqs)
	}
}

// LatestRequestHandler returns the caller's most recent request.
func LatestRequestHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := help.LatestRequest(c.UserContext(), SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	}
}

func GetRequestHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		req, err := help.GetRequest(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	}
}

func UpdateRequestHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in models.HelpRequestInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		req, err := help.UpdateRequest(c.UserContext(), SessionFrom(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	}
}

func DeleteRequestHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := help.DeleteRequest(c.UserContext(), SessionFrom(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func CreateHelperHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in models.HelperProfileInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		p, err := help.CreateHelperProfile(c.UserContext(), SessionFrom(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func ListHelpersHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		helpers, err := help.ListPublishedHelpers(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		if helpers == nil {
			helpers = []models.HelperProfile{}
		}
		return c.JSON(helpers)
	}
}

// HelpersMapHandler lists every helper profile that has a location, for map markers.
func HelpersMapHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		helpers, err := help.HelpersOnMap(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		if helpers == nil {
			helpers = []models.HelperProfile{}
		}
		return c.JSON(helpers)
	}
}

func LatestHelperHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := help.LatestHelperProfile(c.UserContext(), SessionFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

func GetHelperHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		p, err := help.GetHelperProfile(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

func UpdateHelperHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in models.HelperProfileInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		p, err := help.UpdateHelperProfile(c.UserContext(), SessionFrom(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

func DeleteHelperHandler(help *services.HelpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := help.DeleteHelperProfile(c.UserContext(), SessionFrom(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
