package repositories

import (
	"context"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves the listings matching filter, newest first.
func (r *GORMListingRepository) GetAll(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	q := r.db.WithContext(ctx).Model(&models.Listing{})
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var listings []models.Listing
	if err := q.Order("id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, lookupError(err, "listing", id)
	}
	return &listing, nil
}

// Create creates a new listing in the database.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.Status == "" {
		listing.Status = models.ListingActive
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return createError(err, "listing")
	}
	return nil
}

// Update writes the editable fields of a listing. Seller and status are
// never changed here.
func (r *GORMListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", listing.ID).
		Updates(map[string]any{
			"title":       listing.Title,
			"description": listing.Description,
			"price":       listing.Price,
			"category_id": listing.CategoryID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("listing", listing.ID)
	}
	return nil
}

// SetStatus overwrites the status of one listing.
func (r *GORMListingRepository) SetStatus(ctx context.Context, id uint, status models.ListingStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to set status of listing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("listing", id)
	}
	return nil
}

// IDsOwnedBy returns the ids of every listing the seller owns.
func (r *GORMListingRepository) IDsOwnedBy(ctx context.Context, sellerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("seller_id = ?", sellerID).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings of seller %d: %w", sellerID, err)
	}
	return ids, nil
}

// MarkSold moves the given listings to sold. Listings already sold stay
// sold; an empty set is a no-op.
func (r *GORMListingRepository) MarkSold(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id IN ?", ids).Update("status", models.ListingSold).Error; err != nil {
		return fmt.Errorf("failed to mark listings %v sold: %w", ids, err)
	}
	return nil
}
