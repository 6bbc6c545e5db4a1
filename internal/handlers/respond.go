package handlers

import (
	"errors"
	"log"

	"gerai/internal/models"

	"github.com/gofiber/fiber/v2"
)

// writeError maps domain errors onto HTTP responses. Anything unrecognised is
// logged and reported as a generic internal failure so repository details do
// not leak to clients.
func writeError(c *fiber.Ctx, err error, message string) error {
	var fieldErrors models.FieldErrors
	if errors.As(err, &fieldErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart is empty",
		})
	case errors.Is(err, models.ErrNoActiveCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No active cart for this session",
		})
	case errors.Is(err, models.ErrForbidden):
		// Deny without confirming the resource exists.
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message":  "Not available",
			"redirect": "/api/v1/profile",
		})
	case errors.Is(err, models.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
			"login":   "/api/v1/auth/login?next=" + c.Path(),
		})
	case errors.Is(err, models.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order status",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrDuplicateIdentity):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   err.Error(),
		})
	}

	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
