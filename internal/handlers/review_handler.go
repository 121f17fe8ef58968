package handlers

import (
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReviewHandler handles HTTP requests for listing reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes attaches review routes to the authenticated listing group
// and adds DELETE /reviews/:id behind auth.
func (h *ReviewHandler) RegisterRoutes(router, listings fiber.Router, auth fiber.Handler) {
	listings.Get("/:id/reviews", h.HandleGetReviews)
	listings.Post("/:id/reviews", h.HandleCreateReview)

	reviewRoutes := router.Group("/reviews", auth)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// ReviewRequest represents the request body for a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	listingID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	reviews, err := h.service.ListReviews(c.UserContext(), listingID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	listingID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req ReviewRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	review, err := h.service.CreateReview(c.UserContext(), a, listingID, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, h.logger, "Could not create review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.service.DeleteReview(c.UserContext(), a, id); err != nil {
		return respondError(c, h.logger, "Could not delete review", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
