package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"carelink-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrAuth), errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUnsupportedRoom):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := fiber.Map{"error": err.Error()}

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		body["field"] = ve.Field
	case status == http.StatusInternalServerError:
		slog.Error("http: Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		body["error"] = "internal error"
	}
	return c.Status(status).JSON(body)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &services.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}
