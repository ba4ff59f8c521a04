package handlers

import (
	"errors"
	"log"

	"tasker/internal/services"
	"tasker/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes and JSON bodies.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Violations,
		})
	case errors.Is(err, services.ErrFieldsNotAllowed):
		return message(c, fiber.StatusBadRequest, "Requested fields are not allowed")
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		return message(c, fiber.StatusBadRequest, "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		return message(c, fiber.StatusBadRequest, "Unable to login")
	case errors.Is(err, services.ErrInvalidImage):
		return message(c, fiber.StatusBadRequest, "Please provide an image")
	case errors.Is(err, services.ErrFileTooLarge):
		return message(c, fiber.StatusBadRequest, "File too large")
	case errors.Is(err, services.ErrNotFound):
		return message(c, fiber.StatusNotFound, "Not found")
	}

	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body of %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
