package handlers

import (
	"errors"
	"fmt"
	"log"

	"belanja/internal/apperrors"
	"belanja/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps an error to its HTTP response. Operational errors carry
// their own status and caller-safe message; anything else is logged in full
// and surfaced as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"message": appErr.Message,
		})
	}

	log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// respondValidationErrors renders validator failures field by field.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return respondError(c, err)
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// principalID returns the authenticated user's id stored by the auth middleware.
func principalID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// principalRole returns the authenticated user's role stored by the auth middleware.
func principalRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("role").(models.Role)
	return role
}
