package handlers

import (
	"strconv"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the listing routes behind auth and returns the
// listing group so nested resources can be attached to it. sellers guards
// listing creation.
func (h *ListingHandler) RegisterRoutes(router fiber.Router, auth, sellers fiber.Handler) fiber.Router {
	listingRoutes := router.Group("/listings", auth)
	listingRoutes.Get("/", h.HandleGetListings)
	listingRoutes.Get("/:id", h.HandleGetListingByID)
	listingRoutes.Post("/", sellers, h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Patch("/:id/status", h.HandleSetListingStatus)
	return listingRoutes
}

// ListingRequest represents the request body for creating or editing a listing.
type ListingRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uint           `json:"category_id"`
}

func (r ListingRequest) input() services.ListingInput {
	return services.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
	}
}

// StatusRequest represents the request body of a status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleGetListings lists listings. Query parameters seller_id,
// category_id and status narrow the result.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}

	var filter repositories.ListingFilter
	for _, q := range []struct {
		name string
		dst  **uint
	}{{"seller_id", &filter.SellerID}, {"category_id", &filter.CategoryID}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid query parameter " + q.name,
				"error":   err.Error(),
			})
		}
		id := uint(v)
		*q.dst = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseListingStatus(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid query parameter status",
				"error":   err.Error(),
			})
		}
		filter.Status = &status
	}

	listings, err := h.service.ListListings(c.UserContext(), a, filter)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	listing, err := h.service.GetListing(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve listing", err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	var req ListingRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	listing, err := h.service.CreateListing(c.UserContext(), a, req.input())
	if err != nil {
		return respondError(c, h.logger, "Could not create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req ListingRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	listing, err := h.service.UpdateListing(c.UserContext(), a, id, req.input())
	if err != nil {
		return respondError(c, h.logger, "Could not update listing", err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) HandleSetListingStatus(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req StatusRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	listing, err := h.service.SetListingStatus(c.UserContext(), a, id, req.Status)
	if err != nil {
		return respondError(c, h.logger, "Could not change listing status", err)
	}
	return c.JSON(listing)
}
