package handlers

import (
	"belanja/internal/models"
	"belanja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for delivery addresses.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the address routes.
func (h *AddressHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	addressRoutes := router.Group("/addresses", mw...)
	addressRoutes.Get("/", h.HandleGetMyAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Get("/:id", h.HandleGetAddress)
	addressRoutes.Patch("/:id", h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
}

// AddressRequest represents the request body for creating or updating an address.
type AddressRequest struct {
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

func (r *AddressRequest) toModel() *models.Address {
	return &models.Address{
		Street:     r.Street,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// HandleCreateAddress creates a new address for the authenticated user.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	address := req.toModel()
	if err := h.service.CreateAddress(principalID(c), address); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": address})
}

// HandleGetMyAddresses retrieves all addresses owned by the authenticated user.
func (h *AddressHandler) HandleGetMyAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.GetMyAddresses(principalID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"results":   len(addresses),
		"addresses": addresses,
	})
}

// HandleGetAddress retrieves a single address owned by the authenticated user.
func (h *AddressHandler) HandleGetAddress(c *fiber.Ctx) error {
	address, err := h.service.GetAddress(c.Params("id"), principalID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"address": address})
}

// HandleUpdateAddress updates an address owned by the authenticated user.
func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	address, err := h.service.UpdateAddress(c.Params("id"), principalID(c), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"address": address})
}

// HandleDeleteAddress deletes an address owned by the authenticated user.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	if err := h.service.DeleteAddress(c.Params("id"), principalID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted successfully"})
}
