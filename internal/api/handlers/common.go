package handlers

import (
	"errors"

	"ion-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// badRequestFor maps domain validation errors to a 400 response, returning
// false for everything that should stay a 500.
func badRequestFor(c *fiber.Ctx, err error) (error, bool) {
	for _, sentinel := range []error{
		service.ErrEmptyField,
		service.ErrInvalidAmount,
		service.ErrUnparseableDate,
		service.ErrInvalidRecurrence,
	} {
		if errors.Is(err, sentinel) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			}), true
		}
	}
	return nil, false
}
