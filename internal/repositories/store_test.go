package repositories_test

import (
	"context"
	"errors"
	"testing"

	"pasar/internal/database"
	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) *repositories.GORMStore {
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

func createListing(t *testing.T, store repositories.Store, sellerID uint, price string) *models.Listing {
	t.Helper()
	listing := &models.Listing{SellerID: sellerID, Title: "item", Price: decimal.RequireFromString(price)}
	require.NoError(t, store.Listings().Create(context.Background(), listing))
	return listing
}

func createOrder(t *testing.T, store repositories.Store, buyerID uint, status models.OrderStatus, listings ...*models.Listing) *models.Order {
	t.Helper()
	order := &models.Order{BuyerID: buyerID, Status: status}
	for _, l := range listings {
		order.Items = append(order.Items, models.OrderItem{ListingID: l.ID, Quantity: 1, PriceAtPurchase: l.Price})
	}
	order.TotalPrice = models.OrderTotal(order.Items)
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}

// storeCases run against every database the store supports.
var storeCases = []struct {
	name string
	run  func(t *testing.T, store repositories.Store)
}{
	{"MarkSoldIsIdempotent", testMarkSoldIsIdempotent},
	{"IDsOwnedBy", testIDsOwnedBy},
	{"OrdersBySeller", testOrdersBySeller},
	{"UpdateStatus", testUpdateStatus},
	{"DeleteOrderRemovesItems", testDeleteOrderRemovesItems},
	{"TransactionRollback", testTransactionRollback},
	{"HasPurchased", testHasPurchased},
	{"UniqueConstraints", testUniqueConstraints},
}

func TestGORMStore_SQLite(t *testing.T) {
	for _, tc := range storeCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newSQLiteStore(t))
		})
	}
}

func testMarkSoldIsIdempotent(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	b := createListing(t, store, 10, "6.00")

	require.NoError(t, store.Listings().MarkSold(ctx, []uint{a.ID}))
	require.NoError(t, store.Listings().MarkSold(ctx, []uint{a.ID}))
	require.NoError(t, store.Listings().MarkSold(ctx, nil))

	got, err := store.Listings().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingSold, got.Status)
	got, err = store.Listings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingActive, got.Status)
}

func testIDsOwnedBy(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	createListing(t, store, 20, "6.00")
	c := createListing(t, store, 10, "7.00")

	ids, err := store.Listings().IDsOwnedBy(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, c.ID}, ids)

	ids, err = store.Listings().IDsOwnedBy(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func testOrdersBySeller(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	b := createListing(t, store, 20, "6.00")
	first := createOrder(t, store, 99, models.OrderPending, a)
	second := createOrder(t, store, 98, models.OrderPending, a, b)

	seller := uint(20)
	orders, err := store.Orders().GetAll(ctx, repositories.OrderFilter{SellerID: &seller})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 2, "all items are loaded, not just the seller's")

	buyer := uint(99)
	orders, err = store.Orders().GetAll(ctx, repositories.OrderFilter{BuyerID: &buyer})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
}

func testUpdateStatus(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	order := createOrder(t, store, 99, models.OrderPending, a)

	updated, err := store.Orders().UpdateStatus(ctx, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)
	assert.Len(t, updated.Items, 1)
	assert.True(t, order.TotalPrice.Equal(updated.TotalPrice))

	_, err = store.Orders().UpdateStatus(ctx, 999, models.OrderShipped)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func testDeleteOrderRemovesItems(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	order := createOrder(t, store, 99, models.OrderCompleted, a)

	require.NoError(t, store.Orders().Delete(ctx, order.ID))

	_, err := store.Orders().GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	items, err := store.Orders().Items(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, store.Orders().Delete(ctx, order.ID), errs.ErrNotFound)
}

func testTransactionRollback(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	order := createOrder(t, store, 99, models.OrderPending, a)
	boom := errors.New("boom")

	err := store.WithinTransaction(ctx, func(tx repositories.Repositories) error {
		if _, err := tx.Orders().UpdateStatus(ctx, order.ID, models.OrderApproved); err != nil {
			return err
		}
		if err := tx.Listings().MarkSold(ctx, []uint{a.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)
	listing, err := store.Listings().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingActive, listing.Status)

	require.NoError(t, store.WithinTransaction(ctx, func(tx repositories.Repositories) error {
		_, err := tx.Orders().UpdateStatus(ctx, order.ID, models.OrderApproved)
		return err
	}))
	got, err = store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderApproved, got.Status)
}

func testHasPurchased(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createListing(t, store, 10, "5.00")
	b := createListing(t, store, 10, "6.00")
	createOrder(t, store, 99, models.OrderPaid, a)
	createOrder(t, store, 99, models.OrderCancelled, b)

	ok, err := store.Orders().HasPurchased(ctx, 99, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Orders().HasPurchased(ctx, 99, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Orders().HasPurchased(ctx, 98, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Approved orders count only for listings their seller sold.
	c := createListing(t, store, 20, "7.00")
	createOrder(t, store, 97, models.OrderApproved, c)
	ok, err = store.Orders().HasPurchased(ctx, 97, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Listings().MarkSold(ctx, []uint{c.ID}))
	ok, err = store.Orders().HasPurchased(ctx, 97, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func testUniqueConstraints(t *testing.T, store repositories.Store) {
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Username: "ayu", Email: "ayu@example.com", Password: "x", Role: models.RoleBuyer}))
	err := store.Users().Create(ctx, &models.User{Username: "ayu", Email: "other@example.com", Password: "x", Role: models.RoleBuyer})
	assert.ErrorIs(t, err, errs.ErrConflict)

	a := createListing(t, store, 10, "5.00")
	require.NoError(t, store.Reviews().Create(ctx, &models.Review{ListingID: a.ID, BuyerID: 99, Rating: 5}))
	err = store.Reviews().Create(ctx, &models.Review{ListingID: a.ID, BuyerID: 99, Rating: 1})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = store.Reviews().GetByID(ctx, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}
