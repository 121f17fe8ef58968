package services

import (
	"context"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"go.uber.org/zap"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService handles reviews of purchased listings.
type ReviewService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(store repositories.Store, logger *zap.Logger) *ReviewService {
	return &ReviewService{store: store, logger: logger}
}

// CreateReview records a buyer's review of a listing they purchased, at
// most once per listing.
func (s *ReviewService) CreateReview(ctx context.Context, actor models.Actor, listingID uint, rating int, comment string) (*models.Review, error) {
	if actor.Role != models.RoleBuyer {
		return nil, errs.Forbidden("only buyers can review listings")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, errs.Validation("rating", fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if _, err := s.store.Listings().GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	purchased, err := s.store.Orders().HasPurchased(ctx, actor.ID, listingID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, errs.Forbidden("buyer %d has not purchased listing %d", actor.ID, listingID)
	}
	existing, err := s.store.Reviews().GetByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.BuyerID == actor.ID {
			return nil, errs.Conflict("buyer %d already reviewed listing %d", actor.ID, listingID)
		}
	}

	review := &models.Review{
		ListingID: listingID,
		BuyerID:   actor.ID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("listing_id", listingID),
		zap.Uint("buyer_id", actor.ID))
	return review, nil
}

// ListReviews returns the reviews of a listing.
func (s *ReviewService) ListReviews(ctx context.Context, listingID uint) ([]models.Review, error) {
	if _, err := s.store.Listings().GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.store.Reviews().GetByListing(ctx, listingID)
}

// DeleteReview removes a review. Authors delete their own, admins any.
func (s *ReviewService) DeleteReview(ctx context.Context, actor models.Actor, id uint) error {
	review, err := s.store.Reviews().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.BuyerID != actor.ID && !actor.IsAdmin() {
		return errs.Forbidden("review %d belongs to another user", id)
	}
	return s.store.Reviews().Delete(ctx, id)
}
