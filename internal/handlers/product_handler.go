package handlers

import (
	"fmt"
	"log"
	"strconv"

	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for the product aggregate.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts retrieves products. Supported query parameters:
// search (name/description/tag name substring), tags__name, price and
// stock (exact), ordering (price, created_at, stock, "-" prefix for
// descending; newest first by default).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	opts := repositories.ProductListOptions{
		Search:  c.Query("search"),
		TagName: c.Query("tags__name"),
		OrderBy: c.Query("ordering"),
	}
	if raw := c.Query("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid price filter %q", raw),
			})
		}
		opts.Price = &price
	}
	if raw := c.Query("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid stock filter %q", raw),
			})
		}
		opts.Stock = &stock
	}

	products, err := h.service.ListProducts(opts)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, err)
	}

	baseURL := c.BaseURL()
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, presentProduct(&products[i], baseURL))
	}
	return c.JSON(resp)
}

// HandleGetProductByID retrieves a single product aggregate.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentProduct(product, c.BaseURL()))
}

// HandleCreateProduct creates a product together with its tags and
// variants in one write.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentProduct(product, c.BaseURL()))
}

// HandleUpdateProduct applies a partial or full update. A tags key in
// the payload replaces the tag set; a variants key replaces the whole
// variant set; absent keys leave those collections untouched.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentProduct(product, c.BaseURL()))
}

// HandleDeleteProduct deletes a product and everything it owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}
