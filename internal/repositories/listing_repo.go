package repositories

import (
	"context"

	"pasar/internal/models"
)

// ListingFilter narrows GetAll. Nil fields do not filter.
type ListingFilter struct {
	SellerID   *uint
	CategoryID *uint
	Status     *models.ListingStatus
}

// ListingRepository defines the interface for listing data access. It is
// also the listing status store used by order transitions: IDsOwnedBy
// exposes ownership and MarkSold is the only status write orders make.
type ListingRepository interface {
	GetAll(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	SetStatus(ctx context.Context, id uint, status models.ListingStatus) error
	IDsOwnedBy(ctx context.Context, sellerID uint) ([]uint, error)
	MarkSold(ctx context.Context, ids []uint) error
}
