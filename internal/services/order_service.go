package services

import (
	"context"
	"errors"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"go.uber.org/zap"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ListingID uint
	Quantity  int
}

// OrderService handles order placement, visibility and admin purges.
// Status changes go through OrderTransitionService.
type OrderService struct {
	store  repositories.Store
	events orderEvents
	logger *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:  store,
		events: orderEvents{publisher: publisher, logger: logger},
		logger: logger,
	}
}

// CreateOrder places a pending order for the buyer. Item prices are taken
// from the listings at this moment and the total is computed once.
func (s *OrderService) CreateOrder(ctx context.Context, actor models.Actor, items []OrderItemInput) (*models.Order, error) {
	if actor.Role != models.RoleBuyer {
		return nil, errs.Forbidden("only buyers can place orders")
	}
	if len(items) == 0 {
		return nil, errs.Validation("items", errors.New("at least one item is required"))
	}
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errs.Validation("quantity", fmt.Errorf("quantity of listing %d must be positive", item.ListingID))
		}
		if _, dup := seen[item.ListingID]; dup {
			return nil, errs.Validation("items", fmt.Errorf("listing %d appears more than once", item.ListingID))
		}
		seen[item.ListingID] = struct{}{}
	}

	order := &models.Order{
		BuyerID: actor.ID,
		Status:  models.OrderPending,
	}
	err := s.store.WithinTransaction(ctx, func(tx repositories.Repositories) error {
		for _, item := range items {
			listing, err := tx.Listings().GetByID(ctx, item.ListingID)
			if err != nil {
				if errors.Is(err, errs.ErrNotFound) {
					return errs.Validation("listing_id", err)
				}
				return err
			}
			if listing.Status != models.ListingActive {
				return errs.Validation("listing_id", fmt.Errorf("listing %d is %s", listing.ID, listing.Status))
			}
			if listing.SellerID == actor.ID {
				return errs.Forbidden("buyers cannot order their own listing %d", listing.ID)
			}
			order.Items = append(order.Items, models.OrderItem{
				ListingID:       listing.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: listing.Price,
			})
		}
		order.TotalPrice = models.OrderTotal(order.Items)
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		logFailure(s.logger, "Failed to create order", err, zap.Uint("buyer_id", actor.ID))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("buyer_id", order.BuyerID),
		zap.String("total_price", order.TotalPrice.StringFixed(2)))
	s.events.publish(EventOrderCreated, order, "", actor)
	return order, nil
}

// ListOrders returns the orders visible to actor: all of them for admins,
// their own for buyers and those containing their listings for sellers.
func (s *OrderService) ListOrders(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	var filter repositories.OrderFilter
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleBuyer:
		filter.BuyerID = &actor.ID
	case models.RoleSeller:
		filter.SellerID = &actor.ID
	default:
		return nil, errs.Forbidden("role %q cannot list orders", actor.Role)
	}
	return s.store.Orders().GetAll(ctx, filter)
}

// GetOrder returns one order if actor may see it.
func (s *OrderService) GetOrder(ctx context.Context, actor models.Actor, id uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return order, nil
	case models.RoleBuyer:
		if order.BuyerID == actor.ID {
			return order, nil
		}
	case models.RoleSeller:
		owned, err := s.store.Listings().IDsOwnedBy(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(SellerScopedListingIDs(order.Items, owned)) > 0 {
			return order, nil
		}
	}
	return nil, errs.Forbidden("order %d is not visible to user %d", id, actor.ID)
}

// PurgeOrder permanently deletes an order and its items. Admin only.
func (s *OrderService) PurgeOrder(ctx context.Context, actor models.Actor, id uint) error {
	if !actor.IsAdmin() {
		return errs.Forbidden("only admins can delete orders")
	}
	if err := s.store.Orders().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order purged", zap.Uint("order_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}
