package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// VariantHandler handles HTTP requests for the variants collection.
// The owning product is chosen on create and write-restricted after
// that: updates silently drop any product field in the payload.
type VariantHandler struct {
	service  *services.VariantService
	validate *validator.Validate
}

// NewVariantHandler creates a new VariantHandler.
func NewVariantHandler(service *services.VariantService) *VariantHandler {
	return &VariantHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the variant routes with the Fiber app.
func (h *VariantHandler) RegisterRoutes(router fiber.Router) {
	variantRoutes := router.Group("/variants")
	variantRoutes.Get("/", h.HandleListVariants)
	variantRoutes.Get("/:id", h.HandleGetVariantByID)
	variantRoutes.Post("/", h.HandleCreateVariant)
	variantRoutes.Put("/:id", h.HandleUpdateVariant)
	variantRoutes.Patch("/:id", h.HandleUpdateVariant)
	variantRoutes.Delete("/:id", h.HandleDeleteVariant)
}

// HandleListVariants retrieves all variants; the search query
// parameter matches substrings of sku, name, color and size.
func (h *VariantHandler) HandleListVariants(c *fiber.Ctx) error {
	variants, err := h.service.ListVariants(c.Query("search"))
	if err != nil {
		log.Printf("Error listing variants: %v", err)
		return respondError(c, err)
	}
	baseURL := c.BaseURL()
	resp := make([]VariantResponse, 0, len(variants))
	for _, v := range variants {
		resp = append(resp, presentVariant(v, baseURL))
	}
	return c.JSON(resp)
}

// HandleGetVariantByID retrieves a single variant by its ID.
func (h *VariantHandler) HandleGetVariantByID(c *fiber.Ctx) error {
	variant, err := h.service.GetVariantByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting variant by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentVariant(*variant, c.BaseURL()))
}

// createVariantRequest is the JSON payload for creating a variant.
type createVariantRequest struct {
	Product string          `json:"product" validate:"required"`
	Name    string          `json:"name"`
	SKU     string          `json:"sku"`
	Color   string          `json:"color"`
	Size    string          `json:"size"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
}

// updateVariantRequest is the JSON payload for a partial update. A
// product field is accepted and discarded.
type updateVariantRequest struct {
	Name  *string          `json:"name"`
	SKU   *string          `json:"sku"`
	Color *string          `json:"color"`
	Size  *string          `json:"size"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

// HandleCreateVariant creates a variant. JSON payloads carry the
// fields directly; multipart payloads may add an image file.
func (h *VariantHandler) HandleCreateVariant(c *fiber.Ctx) error {
	var input services.CreateVariantInput

	if isMultipart(c) {
		parsed, err := h.parseMultipartCreate(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid multipart payload",
				"error":   err.Error(),
			})
		}
		input = *parsed
	} else {
		var req createVariantRequest
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing variant request body: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
		if err := h.validate.Struct(req); err != nil {
			return respondStructErrors(c, err)
		}
		input = services.CreateVariantInput{
			ProductID: req.Product,
			Name:      req.Name,
			SKU:       req.SKU,
			Color:     req.Color,
			Size:      req.Size,
			Price:     req.Price,
			Stock:     req.Stock,
		}
	}

	variant, err := h.service.CreateVariant(input)
	if err != nil {
		log.Printf("Error creating variant: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentVariant(*variant, c.BaseURL()))
}

// HandleUpdateVariant applies a partial update to a variant.
func (h *VariantHandler) HandleUpdateVariant(c *fiber.Ctx) error {
	var input services.UpdateVariantInput

	if isMultipart(c) {
		parsed, err := h.parseMultipartUpdate(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid multipart payload",
				"error":   err.Error(),
			})
		}
		input = *parsed
	} else {
		var req updateVariantRequest
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing variant request body: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
		input = services.UpdateVariantInput{
			Name:  req.Name,
			SKU:   req.SKU,
			Color: req.Color,
			Size:  req.Size,
			Price: req.Price,
			Stock: req.Stock,
		}
	}

	variant, err := h.service.UpdateVariant(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating variant %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentVariant(*variant, c.BaseURL()))
}

// HandleDeleteVariant deletes a variant by its ID.
func (h *VariantHandler) HandleDeleteVariant(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteVariant(id); err != nil {
		log.Printf("Error deleting variant %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Variant %s deleted successfully", id),
	})
}

func (h *VariantHandler) parseMultipartCreate(c *fiber.Ctx) (*services.CreateVariantInput, error) {
	input := &services.CreateVariantInput{
		ProductID: c.FormValue("product"),
		Name:      c.FormValue("name"),
		SKU:       c.FormValue("sku"),
		Color:     c.FormValue("color"),
		Size:      c.FormValue("size"),
	}
	if raw := c.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", raw)
		}
		input.Price = price
	}
	if raw := c.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q", raw)
		}
		input.Stock = stock
	}
	file, err := formFileInput(c, "image")
	if err != nil {
		return nil, err
	}
	input.Image = file
	return input, nil
}

func (h *VariantHandler) parseMultipartUpdate(c *fiber.Ctx) (*services.UpdateVariantInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	input := &services.UpdateVariantInput{}
	if vals, ok := form.Value["name"]; ok && len(vals) > 0 {
		input.Name = &vals[0]
	}
	if vals, ok := form.Value["sku"]; ok && len(vals) > 0 {
		input.SKU = &vals[0]
	}
	if vals, ok := form.Value["color"]; ok && len(vals) > 0 {
		input.Color = &vals[0]
	}
	if vals, ok := form.Value["size"]; ok && len(vals) > 0 {
		input.Size = &vals[0]
	}
	if vals, ok := form.Value["price"]; ok && len(vals) > 0 {
		price, err := decimal.NewFromString(vals[0])
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", vals[0])
		}
		input.Price = &price
	}
	if vals, ok := form.Value["stock"]; ok && len(vals) > 0 {
		stock, err := strconv.Atoi(vals[0])
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q", vals[0])
		}
		input.Stock = &stock
	}
	file, err := formFileInput(c, "image")
	if err != nil {
		return nil, err
	}
	input.Image = file
	return input, nil
}

// isMultipart reports whether the request carries a multipart form.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// formFileInput opens an optional multipart file field. A missing
// field yields (nil, nil).
func formFileInput(c *fiber.Ctx, field string) (*services.FileInput, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %q: %w", fh.Filename, err)
	}
	return &services.FileInput{
		Filename: fh.Filename,
		Size:     fh.Size,
		Reader:   f,
	}, nil
}
