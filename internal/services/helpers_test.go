package services_test

import (
	"context"
	"testing"

	"pasar/internal/database"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// newTestStore returns a store over a fresh in-memory SQLite database.
func newTestStore(t *testing.T) *repositories.GORMStore {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMStore(db)
}

func seedListing(t *testing.T, store repositories.Store, id, sellerID uint, price string) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		ID:       id,
		SellerID: sellerID,
		Title:    "listing",
		Price:    decimal.RequireFromString(price),
		Status:   models.ListingActive,
	}
	require.NoError(t, store.Listings().Create(context.Background(), listing))
	return listing
}

type seedItem struct {
	listingID uint
	quantity  int
	price     string
}

func seedOrder(t *testing.T, store repositories.Store, id, buyerID uint, status models.OrderStatus, items ...seedItem) *models.Order {
	t.Helper()
	order := &models.Order{ID: id, BuyerID: buyerID, Status: status}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ListingID:       item.listingID,
			Quantity:        item.quantity,
			PriceAtPurchase: decimal.RequireFromString(item.price),
		})
	}
	order.TotalPrice = models.OrderTotal(order.Items)
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}

func listingStatus(t *testing.T, store repositories.Store, id uint) models.ListingStatus {
	t.Helper()
	listing, err := store.Listings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return listing.Status
}

func orderStatus(t *testing.T, store repositories.Store, id uint) models.OrderStatus {
	t.Helper()
	order, err := store.Orders().GetByID(context.Background(), id)
	require.NoError(t, err)
	return order.Status
}

var (
	admin = models.Actor{ID: 1, Role: models.RoleAdmin}
	buyer = models.Actor{ID: 99, Role: models.RoleBuyer}
)

func seller(id uint) models.Actor {
	return models.Actor{ID: id, Role: models.RoleSeller}
}
