package services

import (
	"context"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"go.uber.org/zap"
)

// OrderTransitionService is the only path through which an order changes
// status after creation.
//
//	admin:  any status -> any status, no side effects
//	seller: pending -> approved | rejected, only with a stake in the order;
//	        approving marks the seller's own listings in the order sold
//	buyer:  never
//
// The status write and the listing side effect commit or roll back together.
type OrderTransitionService struct {
	store  repositories.Store
	events orderEvents
	logger *zap.Logger
}

// NewOrderTransitionService creates a new OrderTransitionService. publisher may be nil.
func NewOrderTransitionService(store repositories.Store, publisher EventPublisher, logger *zap.Logger) *OrderTransitionService {
	return &OrderTransitionService{
		store:  store,
		events: orderEvents{publisher: publisher, logger: logger},
		logger: logger,
	}
}

// Transition moves order orderID to requested on behalf of actor and
// returns the updated order.
func (s *OrderTransitionService) Transition(ctx context.Context, orderID uint, requested string, actor models.Actor) (*models.Order, error) {
	target, err := models.ParseOrderStatus(requested)
	if err != nil {
		return nil, errs.Validation("status", err)
	}

	var (
		updated  *models.Order
		previous models.OrderStatus
	)
	err = s.store.WithinTransaction(ctx, func(tx repositories.Repositories) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		previous = order.Status

		switch actor.Role {
		case models.RoleAdmin:
			updated, err = tx.Orders().UpdateStatus(ctx, order.ID, target)
		case models.RoleSeller:
			updated, err = sellerTransition(ctx, tx, order, target, actor)
		case models.RoleBuyer:
			err = errs.Forbidden("buyers cannot change the status of an order")
		default:
			err = errs.Forbidden("role %q cannot change the status of an order", actor.Role)
		}
		return err
	})
	if err != nil {
		logFailure(s.logger, "Order transition failed", err,
			zap.Uint("order_id", orderID),
			zap.String("requested", string(target)),
			zap.Uint("actor_id", actor.ID),
			zap.String("actor_role", string(actor.Role)))
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.Uint("order_id", updated.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.Status)),
		zap.Uint("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)))
	s.events.publish(EventOrderStatusChanged, updated, previous, actor)
	return updated, nil
}

// sellerTransition applies a seller's approval or rejection. The stake
// check runs first so sellers without items learn nothing about the order.
func sellerTransition(ctx context.Context, tx repositories.Repositories, order *models.Order, target models.OrderStatus, actor models.Actor) (*models.Order, error) {
	owned, err := tx.Listings().IDsOwnedBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	sellerListings := SellerScopedListingIDs(order.Items, owned)
	if len(sellerListings) == 0 {
		return nil, errs.Forbidden("seller %d has no items in order %d", actor.ID, order.ID)
	}
	if order.Status != models.OrderPending {
		return nil, errs.InvalidTransition("order %d is %s; sellers may only act on pending orders", order.ID, order.Status)
	}
	if target != models.OrderApproved && target != models.OrderRejected {
		return nil, errs.Forbidden("sellers may only approve or reject orders, not set %s", target)
	}

	updated, err := tx.Orders().UpdateStatus(ctx, order.ID, target)
	if err != nil {
		return nil, err
	}
	if target == models.OrderApproved {
		if err := tx.Listings().MarkSold(ctx, sellerListings); err != nil {
			return nil, fmt.Errorf("approve order %d: %w", order.ID, err)
		}
	}
	return updated, nil
}

// SellerScopedListingIDs returns the distinct listing ids of items that
// appear in owned, in item order. In a multi-seller order these are the
// only listings an approving seller sells.
func SellerScopedListingIDs(items []models.OrderItem, owned []uint) []uint {
	own := make(map[uint]struct{}, len(owned))
	for _, id := range owned {
		own[id] = struct{}{}
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := own[item.ListingID]; !ok {
			continue
		}
		if _, dup := seen[item.ListingID]; dup {
			continue
		}
		seen[item.ListingID] = struct{}{}
		ids = append(ids, item.ListingID)
	}
	return ids
}
