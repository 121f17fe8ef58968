package repositories

import (
	"context"

	"pasar/internal/models"
)

// OrderFilter scopes GetAll. BuyerID keeps the buyer's own orders; SellerID
// keeps orders containing at least one listing of that seller.
type OrderFilter struct {
	BuyerID  *uint
	SellerID *uint
}

// OrderRepository defines the interface for order data access. UpdateStatus
// is a raw write: transition rules live in the services layer.
type OrderRepository interface {
	GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	Items(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id uint) error
	HasPurchased(ctx context.Context, buyerID, listingID uint) (bool, error)
}
