package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus is the lifecycle status of a listing.
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingRemoved ListingStatus = "removed"
)

// ParseListingStatus converts a raw string into a ListingStatus.
func ParseListingStatus(s string) (ListingStatus, error) {
	switch st := ListingStatus(s); st {
	case ListingActive, ListingSold, ListingRemoved:
		return st, nil
	}
	return "", fmt.Errorf("%q is not a listing status", s)
}

// Listing is a single item offered for sale by a seller.
type Listing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SellerID    uint            `json:"seller_id" gorm:"not null;index"`
	CategoryID  *uint           `json:"category_id,omitempty" gorm:"index"`
	Title       string          `json:"title" gorm:"type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Status      ListingStatus   `json:"status" gorm:"type:varchar(20);not null;default:active;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
