package handlers

import (
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the category routes. Reads need auth, writes
// also need adminOnly.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth, adminOnly fiber.Handler) {
	categoryRoutes := router.Group("/categories", auth)
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", adminOnly, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", adminOnly, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", adminOnly, h.HandleDeleteCategory)
}

// CategoryRequest represents the request body for creating or renaming a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.service.CreateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, h.logger, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req CategoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	category := models.Category{ID: id, Name: req.Name, Description: req.Description}
	if err := h.service.UpdateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, h.logger, "Could not update category", err)
	}
	updated, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve category", err)
	}
	return c.JSON(updated)
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "Could not delete category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
