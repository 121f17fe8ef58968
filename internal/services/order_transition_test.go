package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTransitionService(store repositories.Store) *services.OrderTransitionService {
	return services.NewOrderTransitionService(store, nil, zap.NewNop())
}

func TestTransition_SellerApprovesOrder(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	order, err := newTransitionService(store).Transition(context.Background(), 7, "approved", seller(10))

	require.NoError(t, err)
	assert.Equal(t, models.OrderApproved, order.Status)
	assert.Equal(t, models.OrderApproved, orderStatus(t, store, 7))
	assert.Equal(t, models.ListingSold, listingStatus(t, store, 1))
}

func TestTransition_SellerRejectsOrder(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	order, err := newTransitionService(store).Transition(context.Background(), 7, "rejected", seller(10))

	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, order.Status)
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 1), "rejection has no listing side effect")
}

func TestTransition_BuyerIsForbidden(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	order, err := newTransitionService(store).Transition(context.Background(), 7, "paid", buyer)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, models.OrderPending, orderStatus(t, store, 7))
}

func TestTransition_SellerOnCompletedOrder(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 8, 99, models.OrderCompleted, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	_, err := newTransitionService(store).Transition(context.Background(), 8, "approved", seller(10))

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, models.OrderCompleted, orderStatus(t, store, 8))
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 1))
}

func TestTransition_AdminUnknownOrder(t *testing.T) {
	store := newTestStore(t)

	_, err := newTransitionService(store).Transition(context.Background(), 999, "paid", admin)

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTransition_MalformedStatus(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	for _, actor := range []models.Actor{admin, seller(10), buyer} {
		_, err := newTransitionService(store).Transition(context.Background(), 7, "archived", actor)
		assert.ErrorIs(t, err, errs.ErrValidation, actor.Role)
	}
	assert.Equal(t, models.OrderPending, orderStatus(t, store, 7))
}

func TestTransition_AdminReachesEveryStatusFromPending(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	svc := newTransitionService(store)

	for i, target := range models.OrderStatuses {
		id := uint(100 + i)
		seedOrder(t, store, id, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

		order, err := svc.Transition(context.Background(), id, string(target), admin)

		require.NoError(t, err, target)
		assert.Equal(t, target, order.Status)
		assert.Equal(t, target, orderStatus(t, store, id))
	}
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 1), "admin transitions have no side effects")
}

func TestTransition_AdminOverridesTerminalStatus(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 8, 99, models.OrderCompleted, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	order, err := newTransitionService(store).Transition(context.Background(), 8, "pending", admin)

	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
}

func TestTransition_SellerCannotActOnNonPendingOrders(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	svc := newTransitionService(store)

	id := uint(200)
	for _, current := range models.OrderStatuses {
		if current == models.OrderPending {
			continue
		}
		for _, target := range models.OrderStatuses {
			id++
			seedOrder(t, store, id, 99, current, seedItem{listingID: 1, quantity: 1, price: "50.00"})

			_, err := svc.Transition(context.Background(), id, string(target), seller(10))

			assert.ErrorIs(t, err, errs.ErrInvalidTransition, "%s -> %s", current, target)
			assert.Equal(t, current, orderStatus(t, store, id))
		}
	}
}

func TestTransition_SellerWithoutStakeIsForbidden(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedListing(t, store, 2, 20, "10.00") // seller 20 owns a listing, just not in these orders
	svc := newTransitionService(store)

	id := uint(300)
	for _, current := range models.OrderStatuses {
		for _, target := range models.OrderStatuses {
			id++
			seedOrder(t, store, id, 99, current, seedItem{listingID: 1, quantity: 1, price: "50.00"})

			_, err := svc.Transition(context.Background(), id, string(target), seller(20))

			assert.ErrorIs(t, err, errs.ErrForbidden, "%s -> %s", current, target)
		}
	}

	_, err := svc.Transition(context.Background(), 301, "approved", seller(30))
	assert.ErrorIs(t, err, errs.ErrForbidden, "seller without any listings")
}

func TestTransition_SellerLimitedToApproveOrReject(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	svc := newTransitionService(store)

	for i, target := range []models.OrderStatus{models.OrderPending, models.OrderPaid, models.OrderShipped, models.OrderCompleted, models.OrderCancelled} {
		id := uint(400 + i)
		seedOrder(t, store, id, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

		_, err := svc.Transition(context.Background(), id, string(target), seller(10))

		assert.ErrorIs(t, err, errs.ErrForbidden, target)
		assert.Equal(t, models.OrderPending, orderStatus(t, store, id))
	}
}

func TestTransition_MultiSellerApprovalSellsOnlyOwnListings(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00") // seller A
	seedListing(t, store, 2, 20, "30.00") // seller B
	seedListing(t, store, 3, 10, "5.00")  // seller A, not in the order
	seedOrder(t, store, 7, 99, models.OrderPending,
		seedItem{listingID: 1, quantity: 1, price: "50.00"},
		seedItem{listingID: 2, quantity: 2, price: "30.00"},
	)

	order, err := newTransitionService(store).Transition(context.Background(), 7, "approved", seller(10))

	require.NoError(t, err)
	assert.Equal(t, models.OrderApproved, order.Status)
	assert.Equal(t, models.ListingSold, listingStatus(t, store, 1))
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 2))
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 3))

	// The order has left pending, so seller B can no longer act on it.
	_, err = newTransitionService(store).Transition(context.Background(), 7, "approved", seller(20))
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestTransition_TotalPriceNeverChanges(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "19.99")
	seedListing(t, store, 2, 20, "5.50")
	seedOrder(t, store, 7, 99, models.OrderPending,
		seedItem{listingID: 1, quantity: 3, price: "19.99"},
		seedItem{listingID: 2, quantity: 2, price: "5.50"},
	)
	svc := newTransitionService(store)
	want := decimal.RequireFromString("70.97")

	steps := []struct {
		status string
		actor  models.Actor
	}{
		{"approved", seller(10)},
		{"paid", admin},
		{"shipped", admin},
		{"completed", admin},
		{"cancelled", admin},
	}
	for _, step := range steps {
		order, err := svc.Transition(context.Background(), 7, step.status, step.actor)
		require.NoError(t, err)
		assert.True(t, want.Equal(order.TotalPrice), "total after %s: %s", step.status, order.TotalPrice)
		assert.True(t, models.OrderTotal(order.Items).Equal(order.TotalPrice))
	}
}

// failingMarkSoldStore delegates to a real store but fails every MarkSold
// inside a transaction.
type failingMarkSoldStore struct {
	repositories.Store
}

func (s failingMarkSoldStore) WithinTransaction(ctx context.Context, fn func(tx repositories.Repositories) error) error {
	return s.Store.WithinTransaction(ctx, func(tx repositories.Repositories) error {
		return fn(failingMarkSoldRepos{tx})
	})
}

type failingMarkSoldRepos struct {
	repositories.Repositories
}

func (r failingMarkSoldRepos) Listings() repositories.ListingRepository {
	return failingListings{r.Repositories.Listings()}
}

type failingListings struct {
	repositories.ListingRepository
}

func (failingListings) MarkSold(context.Context, []uint) error {
	return errors.New("disk full")
}

func TestTransition_RollsBackWhenListingUpdateFails(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	svc := services.NewOrderTransitionService(failingMarkSoldStore{store}, nil, zap.NewNop())
	_, err := svc.Transition(context.Background(), 7, "approved", seller(10))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, errs.Kind(err))
	assert.Equal(t, models.OrderPending, orderStatus(t, store, 7), "status write must be rolled back")
	assert.Equal(t, models.ListingActive, listingStatus(t, store, 1))
}

func TestTransition_PublishesStatusChangedEvent(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	publisher := new(MockEventPublisher)
	var published services.OrderEvent
	publisher.On("Publish", services.EventOrderStatusChanged, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, json.Unmarshal(args.Get(1).([]byte), &published))
		}).
		Return(nil).Once()

	svc := services.NewOrderTransitionService(store, publisher, zap.NewNop())
	_, err := svc.Transition(context.Background(), 7, "approved", seller(10))

	require.NoError(t, err)
	publisher.AssertExpectations(t)
	assert.Equal(t, services.EventOrderStatusChanged, published.Type)
	assert.Equal(t, uint(7), published.OrderID)
	assert.Equal(t, uint(99), published.BuyerID)
	assert.Equal(t, models.OrderApproved, published.Status)
	assert.Equal(t, models.OrderPending, published.PreviousStatus)
	assert.Equal(t, uint(10), published.ActorID)
	assert.Equal(t, models.RoleSeller, published.ActorRole)
	assert.NotEmpty(t, published.EventID)
}

func TestTransition_PublishFailureKeepsCommittedTransition(t *testing.T) {
	store := newTestStore(t)
	seedListing(t, store, 1, 10, "50.00")
	seedOrder(t, store, 7, 99, models.OrderPending, seedItem{listingID: 1, quantity: 1, price: "50.00"})

	publisher := new(MockEventPublisher)
	publisher.On("Publish", services.EventOrderStatusChanged, mock.Anything).Return(errors.New("broker down")).Once()

	svc := services.NewOrderTransitionService(store, publisher, zap.NewNop())
	order, err := svc.Transition(context.Background(), 7, "paid", admin)

	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
	publisher.AssertExpectations(t)
}

func TestTransition_FailureDoesNotPublish(t *testing.T) {
	store := newTestStore(t)
	publisher := new(MockEventPublisher)

	svc := services.NewOrderTransitionService(store, publisher, zap.NewNop())
	_, err := svc.Transition(context.Background(), 999, "paid", admin)

	assert.ErrorIs(t, err, errs.ErrNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSellerScopedListingIDs(t *testing.T) {
	items := []models.OrderItem{
		{ListingID: 1}, {ListingID: 2}, {ListingID: 3}, {ListingID: 1},
	}

	tests := []struct {
		name  string
		owned []uint
		want  []uint
	}{
		{"owns subset", []uint{3, 1, 42}, []uint{1, 3}},
		{"owns all", []uint{1, 2, 3}, []uint{1, 2, 3}},
		{"owns none of them", []uint{7, 8}, []uint{}},
		{"owns nothing", nil, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.SellerScopedListingIDs(items, tt.owned))
		})
	}

	assert.Equal(t, []uint{}, services.SellerScopedListingIDs(nil, []uint{1}))
}
