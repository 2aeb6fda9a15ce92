package handlers

import (
	"log"

	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	service  *services.TagService
	validate *validator.Validate
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service *services.TagService) *TagHandler {
	return &TagHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tagRoutes := router.Group("/tags")
	tagRoutes.Get("/", h.HandleListTags)
	tagRoutes.Get("/:id", h.HandleGetTagByID)
	tagRoutes.Post("/", h.HandleCreateTag)
	tagRoutes.Put("/:id", h.HandleUpdateTag)
	tagRoutes.Delete("/:id", h.HandleDeleteTag)
}

// TagRequest is the payload for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// HandleListTags retrieves all tags, searchable by name.
func (h *TagHandler) HandleListTags(c *fiber.Ctx) error {
	tags, err := h.service.ListTags(c.Query("search"))
	if err != nil {
		log.Printf("Error listing tags: %v", err)
		return respondError(c, err)
	}
	resp := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		resp = append(resp, presentTag(tag))
	}
	return c.JSON(resp)
}

// HandleGetTagByID retrieves a single tag by its ID.
func (h *TagHandler) HandleGetTagByID(c *fiber.Ctx) error {
	tag, err := h.service.GetTagByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting tag by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentTag(*tag))
}

// HandleCreateTag creates a new tag.
func (h *TagHandler) HandleCreateTag(c *fiber.Ctx) error {
	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing tag request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondStructErrors(c, err)
	}

	tag, err := h.service.CreateTag(req.Name)
	if err != nil {
		log.Printf("Error creating tag: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentTag(*tag))
}

// HandleUpdateTag renames an existing tag.
func (h *TagHandler) HandleUpdateTag(c *fiber.Ctx) error {
	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing tag request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondStructErrors(c, err)
	}

	tag, err := h.service.UpdateTag(c.Params("id"), req.Name)
	if err != nil {
		log.Printf("Error updating tag %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(presentTag(*tag))
}

// HandleDeleteTag deletes a tag by its ID.
func (h *TagHandler) HandleDeleteTag(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteTag(id); err != nil {
		log.Printf("Error deleting tag %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Tag " + id + " deleted successfully",
	})
}
