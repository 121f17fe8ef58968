package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the status of an order. Seller gate states (approved,
// rejected) and fulfillment states (paid, shipped, completed, cancelled)
// share one field.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderRejected  OrderStatus = "rejected"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderApproved,
	OrderRejected,
	OrderPaid,
	OrderShipped,
	OrderCompleted,
	OrderCancelled,
}

// ParseOrderStatus converts a raw string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q is not an order status", s)
}

// Purchased reports whether an order in this status counts as a purchase
// of its listings.
func (s OrderStatus) Purchased() bool {
	switch s {
	case OrderApproved, OrderPaid, OrderShipped, OrderCompleted:
		return true
	}
	return false
}

// OrderItem is one line of an order. PriceAtPurchase is the listing price
// captured when the order was placed.
type OrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderID         uint            `json:"order_id" gorm:"not null;index"`
	ListingID       uint            `json:"listing_id" gorm:"not null;index"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" gorm:"type:decimal(12,2);not null"`
}

// Subtotal is PriceAtPurchase × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a buyer's purchase of one or more listings.
type Order struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	BuyerID    uint            `json:"buyer_id" gorm:"not null;index"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderTotal sums the subtotals of items.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ListingIDs returns the distinct listing ids referenced by the order, in
// item order.
func (o *Order) ListingIDs() []uint {
	seen := make(map[uint]struct{}, len(o.Items))
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ListingID]; ok {
			continue
		}
		seen[item.ListingID] = struct{}{}
		ids = append(ids, item.ListingID)
	}
	return ids
}
