package repositories

import (
	"context"
	"fmt"

	"pasar/internal/errs"
	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	})
}

// GetAll retrieves the orders matching filter with their items, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := preloadItems(r.db.WithContext(ctx)).Model(&models.Order{})
	if filter.BuyerID != nil {
		q = q.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.SellerID != nil {
		q = q.Where("id IN (?)", r.db.Model(&models.OrderItem{}).
			Select("order_items.order_id").
			Joins("JOIN listings ON listings.id = order_items.listing_id").
			Where("listings.seller_id = ?", *filter.SellerID))
	}

	var orders []models.Order
	if err := q.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID loads an order and its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := preloadItems(r.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, lookupError(err, "order", id)
	}
	return &order, nil
}

// Items returns the items of an order in insertion order.
func (r *GORMOrderRepository) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items of order %d: %w", orderID, err)
	}
	return items, nil
}

// Create inserts the order together with its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return createError(err, "order")
	}
	return nil
}

// UpdateStatus overwrites the status of an order and returns the reloaded order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("order", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an order and its items.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %d: %w", id, err)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("order", id)
		}
		return nil
	})
}

// HasPurchased reports whether the buyer has an order in a purchased status
// containing the listing. An approved order only counts for listings that
// were sold with it, since approval is per seller.
func (r *GORMOrderRepository) HasPurchased(ctx context.Context, buyerID, listingID uint) (bool, error) {
	var settled []models.OrderStatus
	for _, st := range models.OrderStatuses {
		if st.Purchased() && st != models.OrderApproved {
			settled = append(settled, st)
		}
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN listings ON listings.id = order_items.listing_id").
		Where("orders.buyer_id = ? AND order_items.listing_id = ?", buyerID, listingID).
		Where("(orders.status IN ? OR (orders.status = ? AND listings.status = ?))",
			settled, models.OrderApproved, models.ListingSold).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchases of buyer %d: %w", buyerID, err)
	}
	return count > 0, nil
}
