package handlers

import (
	"errors"
	"fmt"
	"log"

	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError translates service and repository errors into HTTP
// responses: validation failures become 400 with a per-field error
// map, unknown IDs become 404, and everything else is an opaque 500
// that never exposes storage internals.
func respondError(c *fiber.Ctx, err error) error {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verrs.Fields(),
		})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	log.Printf("Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// respondStructErrors renders validator.Struct failures field by field.
func respondStructErrors(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
