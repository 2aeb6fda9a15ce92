package handlers

import (
	"fmt"
	"log"

	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MediaHandler handles HTTP requests for the product-images and
// product-videos collections. Creates are multipart: a product ID, the
// file itself and an optional alt_text or caption.
type MediaHandler struct {
	service  *services.MediaService
	validate *validator.Validate
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(service *services.MediaService) *MediaHandler {
	return &MediaHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the media routes with the Fiber app.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	imageRoutes := router.Group("/product-images")
	imageRoutes.Get("/", h.HandleListImages)
	imageRoutes.Get("/:id", h.HandleGetImageByID)
	imageRoutes.Post("/", h.HandleCreateImage)
	imageRoutes.Put("/:id", h.HandleUpdateImage)
	imageRoutes.Patch("/:id", h.HandleUpdateImage)
	imageRoutes.Delete("/:id", h.HandleDeleteImage)

	videoRoutes := router.Group("/product-videos")
	videoRoutes.Get("/", h.HandleListVideos)
	videoRoutes.Get("/:id", h.HandleGetVideoByID)
	videoRoutes.Post("/", h.HandleCreateVideo)
	videoRoutes.Put("/:id", h.HandleUpdateVideo)
	videoRoutes.Patch("/:id", h.HandleUpdateVideo)
	videoRoutes.Delete("/:id", h.HandleDeleteVideo)
}

// mediaCreateRequest is the non-file part of a media create payload.
type mediaCreateRequest struct {
	Product string `validate:"required"`
}

// HandleListImages retrieves all product images.
func (h *MediaHandler) HandleListImages(c *fiber.Ctx) error {
	images, err := h.service.ListImages()
	if err != nil {
		log.Printf("Error listing product images: %v", err)
		return respondError(c, err)
	}
	baseURL := c.BaseURL()
	resp := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, presentImage(img, baseURL))
	}
	return c.JSON(resp)
}

// HandleGetImageByID retrieves a single product image by its ID.
func (h *MediaHandler) HandleGetImageByID(c *fiber.Ctx) error {
	image, err := h.service.GetImageByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product image by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentImage(*image, c.BaseURL()))
}

// HandleCreateImage uploads an image for a product. Requires multipart
// fields: product (ID) and image (file); alt_text is optional.
func (h *MediaHandler) HandleCreateImage(c *fiber.Ctx) error {
	req := mediaCreateRequest{Product: c.FormValue("product")}
	if err := h.validate.Struct(req); err != nil {
		return respondStructErrors(c, err)
	}
	file, err := formFileInput(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart payload",
			"error":   err.Error(),
		})
	}
	if file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
		})
	}

	image, err := h.service.CreateImage(req.Product, *file, c.FormValue("alt_text"))
	if err != nil {
		log.Printf("Error creating product image: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentImage(*image, c.BaseURL()))
}

// HandleUpdateImage replaces the file and/or alt text of an image.
func (h *MediaHandler) HandleUpdateImage(c *fiber.Ctx) error {
	file, err := formFileInput(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart payload",
			"error":   err.Error(),
		})
	}
	altText := formValuePresent(c, "alt_text")

	image, err := h.service.UpdateImage(c.Params("id"), file, altText)
	if err != nil {
		log.Printf("Error updating product image %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentImage(*image, c.BaseURL()))
}

// HandleDeleteImage deletes a product image by its ID.
func (h *MediaHandler) HandleDeleteImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteImage(id); err != nil {
		log.Printf("Error deleting product image %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product image %s deleted successfully", id),
	})
}

// HandleListVideos retrieves all product videos.
func (h *MediaHandler) HandleListVideos(c *fiber.Ctx) error {
	videos, err := h.service.ListVideos()
	if err != nil {
		log.Printf("Error listing product videos: %v", err)
		return respondError(c, err)
	}
	baseURL := c.BaseURL()
	resp := make([]VideoResponse, 0, len(videos))
	for _, vid := range videos {
		resp = append(resp, presentVideo(vid, baseURL))
	}
	return c.JSON(resp)
}

// HandleGetVideoByID retrieves a single product video by its ID.
func (h *MediaHandler) HandleGetVideoByID(c *fiber.Ctx) error {
	video, err := h.service.GetVideoByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product video by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentVideo(*video, c.BaseURL()))
}

// HandleCreateVideo uploads a video for a product. Requires multipart
// fields: product (ID) and video (file); caption is optional.
func (h *MediaHandler) HandleCreateVideo(c *fiber.Ctx) error {
	req := mediaCreateRequest{Product: c.FormValue("product")}
	if err := h.validate.Struct(req); err != nil {
		return respondStructErrors(c, err)
	}
	file, err := formFileInput(c, "video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart payload",
			"error":   err.Error(),
		})
	}
	if file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A video file is required",
		})
	}

	video, err := h.service.CreateVideo(req.Product, *file, c.FormValue("caption"))
	if err != nil {
		log.Printf("Error creating product video: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentVideo(*video, c.BaseURL()))
}

// HandleUpdateVideo replaces the file and/or caption of a video.
func (h *MediaHandler) HandleUpdateVideo(c *fiber.Ctx) error {
	file, err := formFileInput(c, "video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart payload",
			"error":   err.Error(),
		})
	}
	caption := formValuePresent(c, "caption")

	video, err := h.service.UpdateVideo(c.Params("id"), file, caption)
	if err != nil {
		log.Printf("Error updating product video %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentVideo(*video, c.BaseURL()))
}

// HandleDeleteVideo deletes a product video by its ID.
func (h *MediaHandler) HandleDeleteVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteVideo(id); err != nil {
		log.Printf("Error deleting product video %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product video %s deleted successfully", id),
	})
}

// formValuePresent returns a pointer to the form value only when the
// field was actually sent, so absent and empty are distinguishable.
func formValuePresent(c *fiber.Ctx, field string) *string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	if vals, ok := form.Value[field]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}
