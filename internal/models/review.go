package models

import "time"

// Review is a buyer's rating of a listing they purchased.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"not null;uniqueIndex:idx_review_listing_buyer"`
	BuyerID   uint      `json:"buyer_id" gorm:"not null;uniqueIndex:idx_review_listing_buyer"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
