package handlers

import (
	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes are
// gated per route with the supplied auth and admin middleware.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authMW, adminMW fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", authMW, adminMW, h.HandleCreateProduct)
	productRoutes.Put("/:id", authMW, adminMW, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authMW, adminMW, h.HandleDeleteProduct)
}

// ProductRequest represents the request body for creating or updating a
// product. The price travels as a decimal string to avoid float rounding.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       string  `json:"price" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
}

func (r *ProductRequest) toModel() (*models.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, apperrors.InvalidInput("price must be a decimal number")
	}
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}, nil
}

// HandleGetProducts lists the catalog with optional filtering, sorting and
// pagination. Supported query parameters: name (substring), category_id,
// price_gte, price_lte, sort_by, order (asc|desc), page, limit.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	query := repositories.ProductListQuery{
		Name:       c.Query("name"),
		CategoryID: c.Query("category_id"),
		SortBy:     c.Query("sort_by"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", repositories.DefaultPageSize),
	}

	switch c.Query("order", "asc") {
	case "asc":
	case "desc":
		query.SortDesc = true
	default:
		return respondError(c, apperrors.InvalidInput("order must be asc or desc"))
	}

	for param, target := range map[string]**decimal.Decimal{
		"price_gte": &query.PriceGTE,
		"price_lte": &query.PriceLTE,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return respondError(c, apperrors.InvalidInput(param+" must be a decimal number"))
		}
		*target = &price
	}

	products, total, query, err := h.service.ListProducts(query)
	if err != nil {
		return respondError(c, err)
	}

	totalPages := (total + int64(query.Limit) - 1) / int64(query.Limit)
	return c.JSON(fiber.Map{
		"results":  len(products),
		"products": products,
		"pagination": fiber.Map{
			"page":        query.Page,
			"limit":       query.Limit,
			"total":       total,
			"total_pages": totalPages,
			"has_next":    int64(query.Page) < totalPages,
			"has_prev":    query.Page > 1,
		},
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleCreateProduct creates a new product (admin only).
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := req.toModel()
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.CreateProduct(product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

// HandleUpdateProduct updates an existing product (admin only).
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := req.toModel()
	if err != nil {
		return respondError(c, err)
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleDeleteProduct deletes a product by its ID (admin only).
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
