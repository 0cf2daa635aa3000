//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"shop-inventory/internal/domain/order"
	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/commands"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderCommands(store *fakeStore) commands.OrderCommands {
	clk := clock.NewMockClock(testNow)
	return commands.NewOrderCommands(newFakeUoW(store), &fakeOrderQueries{store: store}, clk)
}

// requestHash mirrors how the checkout path fingerprints a request body.
func requestHash(t *testing.T, params commands.CreateOrderParams) string {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type checkoutFixture struct {
	store  *fakeStore
	svc    commands.OrderCommands
	skuA   uuid.UUID
	skuB   uuid.UUID
	holdA  uuid.UUID
	holdB  uuid.UUID
	params commands.CreateOrderParams
}

// newCheckoutFixture seeds two held SKUs ready to be promoted into an order.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := newFakeStore()
	productID := store.addProduct()
	skuA := store.addSku(productID, "TSHIRT-BLK-M", 2500, 5, 2, true)
	skuB := store.addSku(productID, "HOODIE-GRY-L", 9900, 3, 1, true)
	holdA := store.addReservation(skuA, 2, "session-1", testNow.Add(testTTL))
	holdB := store.addReservation(skuB, 1, "session-1", testNow.Add(testTTL))
	return &checkoutFixture{
		store: store,
		svc:   newOrderCommands(store),
		skuA:  skuA,
		skuB:  skuB,
		holdA: holdA,
		holdB: holdB,
		params: commands.CreateOrderParams{
			Email:          "buyer@example.com",
			SessionID:      "session-1",
			ReservationIDs: []uuid.UUID{holdA, holdB},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes holds into a pending order", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		key := uuid.New()

		result, err := fx.svc.CreateOrder(ctx, fx.params, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, "pending", result.Order.Status)
		assert.Equal(t, "buyer@example.com", result.Order.Email)
		assert.Equal(t, int64(2*2500+9900), result.Order.TotalCents)
		require.Len(t, result.Order.Items, 2)

		// Both holds now belong to the order; counters are untouched until
		// the order is confirmed.
		for _, holdID := range []uuid.UUID{fx.holdA, fx.holdB} {
			row := fx.store.reservations[holdID]
			require.NotNil(t, row.orderID)
			assert.Equal(t, result.Order.ID, *row.orderID)
		}
		assert.Equal(t, int32(2), fx.store.skus[fx.skuA].reserved)
		assert.Equal(t, int32(5), fx.store.skus[fx.skuA].stock)
	})

	t.Run("same key replays the stored order", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		key := uuid.New()

		first, err := fx.svc.CreateOrder(ctx, fx.params, key)
		require.NoError(t, err)

		second, err := fx.svc.CreateOrder(ctx, fx.params, key)
		require.NoError(t, err)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Order.ID, second.Order.ID)
		assert.Len(t, fx.store.orders, 1)
	})

	t.Run("same key with different body is rejected", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		key := uuid.New()

		_, err := fx.svc.CreateOrder(ctx, fx.params, key)
		require.NoError(t, err)

		other := fx.params
		other.Email = "other@example.com"
		_, err = fx.svc.CreateOrder(ctx, other, key)
		assert.ErrorIs(t, err, errs.ErrDuplicateRequest)
	})

	t.Run("retry while the first attempt is still processing", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		key := uuid.New()
		fx.store.idempotency[key] = idempotencyRow{
			endpoint:    "POST /orders",
			status:      shared.IdempotencyProcessing,
			requestHash: requestHash(t, fx.params),
			expiresAt:   testNow.Add(24 * time.Hour),
		}

		_, err := fx.svc.CreateOrder(ctx, fx.params, key)
		assert.ErrorIs(t, err, errs.ErrIdempotencyInProgress)
	})

	t.Run("stale processing claim is taken over", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		key := uuid.New()
		// A checkout that crashed after claiming its key left this row.
		fx.store.idempotency[key] = idempotencyRow{
			endpoint:    "POST /orders",
			status:      shared.IdempotencyProcessing,
			requestHash: requestHash(t, fx.params),
			expiresAt:   testNow.Add(-48 * time.Hour),
		}

		result, err := fx.svc.CreateOrder(ctx, fx.params, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Len(t, fx.store.orders, 1)

		row := fx.store.idempotency[key]
		assert.Equal(t, shared.IdempotencyCompleted, row.status)
		assert.Equal(t, testNow.Add(24*time.Hour), row.expiresAt)
	})

	t.Run("swept hold surfaces as expired", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		delete(fx.store.reservations, fx.holdB)

		_, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		assert.ErrorIs(t, err, errs.ErrReservationExpired)
		assert.Empty(t, fx.store.orders)
	})

	t.Run("hold past its window is expired even before the sweep", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		row := fx.store.reservations[fx.holdB]
		row.expiresAt = testNow.Add(-time.Minute)
		fx.store.reservations[fx.holdB] = row

		_, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		assert.ErrorIs(t, err, errs.ErrReservationExpired)
		assert.Empty(t, fx.store.orders)
	})

	t.Run("hold from another session is rejected", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		stranger := fx.params
		stranger.SessionID = "session-2"

		_, err := fx.svc.CreateOrder(ctx, stranger, uuid.New())
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("hold already promoted cannot be reused", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		_, err := fx.svc.CreateOrder(ctx, commands.CreateOrderParams{
			Email:          "buyer@example.com",
			SessionID:      "session-1",
			ReservationIDs: []uuid.UUID{fx.holdA},
		}, uuid.New())
		require.NoError(t, err)

		_, err = fx.svc.CreateOrder(ctx, commands.CreateOrderParams{
			Email:          "buyer@example.com",
			SessionID:      "session-1",
			ReservationIDs: []uuid.UUID{fx.holdA, fx.holdB},
		}, uuid.New())
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("rejects empty reservation list and bad email", func(t *testing.T) {
		fx := newCheckoutFixture(t)

		_, err := fx.svc.CreateOrder(ctx, commands.CreateOrderParams{
			Email:     "buyer@example.com",
			SessionID: "session-1",
		}, uuid.New())
		assert.ErrorIs(t, err, errs.ErrDomainValidation)

		bad := fx.params
		bad.Email = "not-an-email"
		_, err = fx.svc.CreateOrder(ctx, bad, uuid.New())
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestConfirmOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("turns holds into permanent deductions", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)

		require.NoError(t, fx.svc.ConfirmOrder(ctx, created.Order.ID))

		assert.Equal(t, order.StatusConfirmed, fx.store.orders[created.Order.ID].status)
		assert.Equal(t, int32(3), fx.store.skus[fx.skuA].stock)
		assert.Equal(t, int32(0), fx.store.skus[fx.skuA].reserved)
		assert.Equal(t, int32(2), fx.store.skus[fx.skuB].stock)
		assert.Equal(t, int32(0), fx.store.skus[fx.skuB].reserved)
		assert.Empty(t, fx.store.reservations)
	})

	t.Run("confirming twice is an invalid transition", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)
		require.NoError(t, fx.svc.ConfirmOrder(ctx, created.Order.ID))

		err = fx.svc.ConfirmOrder(ctx, created.Order.ID)
		assert.ErrorIs(t, err, errs.ErrInvalidOrderTransition)
	})

	t.Run("unknown order", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		err := fx.svc.ConfirmOrder(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})

	t.Run("swept hold aborts the confirmation untouched", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)
		delete(fx.store.reservations, fx.holdB)

		err = fx.svc.ConfirmOrder(ctx, created.Order.ID)
		assert.ErrorIs(t, err, errs.ErrReservationExpired)

		// Rolled back: order still pending, remaining counters intact.
		assert.Equal(t, order.StatusPending, fx.store.orders[created.Order.ID].status)
		assert.Equal(t, int32(5), fx.store.skus[fx.skuA].stock)
		assert.Equal(t, int32(2), fx.store.skus[fx.skuA].reserved)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the order's holds", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)

		require.NoError(t, fx.svc.CancelOrder(ctx, created.Order.ID))

		assert.Equal(t, order.StatusCanceled, fx.store.orders[created.Order.ID].status)
		assert.Equal(t, int32(5), fx.store.skus[fx.skuA].stock)
		assert.Equal(t, int32(0), fx.store.skus[fx.skuA].reserved)
		assert.Equal(t, int32(0), fx.store.skus[fx.skuB].reserved)
		assert.Empty(t, fx.store.reservations)
	})

	t.Run("cancel after sweep still cancels", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)
		delete(fx.store.reservations, fx.holdA)
		delete(fx.store.reservations, fx.holdB)

		require.NoError(t, fx.svc.CancelOrder(ctx, created.Order.ID))
		assert.Equal(t, order.StatusCanceled, fx.store.orders[created.Order.ID].status)
	})

	t.Run("canceling a confirmed order is rejected", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		created, err := fx.svc.CreateOrder(ctx, fx.params, uuid.New())
		require.NoError(t, err)
		require.NoError(t, fx.svc.ConfirmOrder(ctx, created.Order.ID))

		err = fx.svc.CancelOrder(ctx, created.Order.ID)
		assert.ErrorIs(t, err, errs.ErrInvalidOrderTransition)
	})
}
