package repositories

import (
	"context"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) GetByListing(ctx context.Context, listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("id").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to get reviews of listing %d: %w", listingID, err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, lookupError(err, "review", id)
	}
	return &review, nil
}

// Create stores a review. A second review by the same buyer for the same
// listing is a conflict.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return createError(err, "review")
	}
	return nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("review", id)
	}
	return nil
}
