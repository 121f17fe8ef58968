package services

import (
	"context"
	"errors"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingInput carries the seller-editable fields of a listing.
type ListingInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  *uint
}

// ListingService handles business logic related to listings.
type ListingService struct {
	repo         repositories.ListingRepository
	categoryRepo repositories.CategoryRepository
	logger       *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository, categoryRepo repositories.CategoryRepository, logger *zap.Logger) *ListingService {
	return &ListingService{
		repo:         repo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListListings returns the listings matching filter. Without a status
// filter only active listings are returned; other statuses are visible to
// admins and to sellers browsing their own listings.
func (s *ListingService) ListListings(ctx context.Context, actor models.Actor, filter repositories.ListingFilter) ([]models.Listing, error) {
	if filter.Status == nil {
		active := models.ListingActive
		filter.Status = &active
	}
	if *filter.Status != models.ListingActive && !actor.IsAdmin() {
		if filter.SellerID == nil || *filter.SellerID != actor.ID {
			return nil, errs.Forbidden("only active listings of other sellers are visible")
		}
	}
	return s.repo.GetAll(ctx, filter)
}

func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateListing publishes a new active listing owned by the actor.
func (s *ListingService) CreateListing(ctx context.Context, actor models.Actor, in ListingInput) (*models.Listing, error) {
	if actor.Role != models.RoleSeller && actor.Role != models.RoleAdmin {
		return nil, errs.Forbidden("only sellers can create listings")
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		SellerID:    actor.ID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Status:      models.ListingActive,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.logger.Info("Listing created", zap.Uint("listing_id", listing.ID), zap.Uint("seller_id", actor.ID))
	return listing, nil
}

// UpdateListing edits a listing owned by the actor. Sold listings are frozen.
func (s *ListingService) UpdateListing(ctx context.Context, actor models.Actor, id uint, in ListingInput) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actor.ID {
		return nil, errs.Forbidden("listing %d belongs to another seller", id)
	}
	if listing.Status == models.ListingSold {
		return nil, errs.InvalidTransition("listing %d is sold and can no longer be edited", id)
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Price = in.Price
	listing.CategoryID = in.CategoryID
	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// SetListingStatus activates or disables a listing. Owners toggle between
// active and removed; admins may also remove any listing. Listings only
// become sold through order approval, and a sold listing stays sold unless
// an admin removes it.
func (s *ListingService) SetListingStatus(ctx context.Context, actor models.Actor, id uint, raw string) (*models.Listing, error) {
	status, err := models.ParseListingStatus(raw)
	if err != nil {
		return nil, errs.Validation("status", err)
	}
	if status == models.ListingSold {
		return nil, errs.InvalidTransition("listings are marked sold only by order approval")
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, errs.Forbidden("listing %d belongs to another seller", id)
	}
	if listing.Status == models.ListingSold && !(actor.IsAdmin() && status == models.ListingRemoved) {
		return nil, errs.InvalidTransition("listing %d is sold", id)
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("Listing status changed",
		zap.Uint("listing_id", id),
		zap.String("status", string(status)),
		zap.Uint("actor_id", actor.ID))
	listing.Status = status
	return listing, nil
}

func (s *ListingService) validate(ctx context.Context, in ListingInput) error {
	if in.Title == "" {
		return errs.Validation("title", errors.New("title is required"))
	}
	if !in.Price.IsPositive() {
		return errs.Validation("price", errors.New("price must be greater than zero"))
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.Validation("category_id", err)
			}
			return err
		}
	}
	return nil
}
