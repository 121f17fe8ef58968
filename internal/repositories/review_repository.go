package repositories

import (
	"context"

	"pasar/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetByListing(ctx context.Context, listingID uint) ([]models.Review, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
}
