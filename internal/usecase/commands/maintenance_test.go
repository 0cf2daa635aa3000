//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/config"
	"shop-inventory/internal/usecase/commands"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaintenanceCommands(store *fakeStore, batchSize int32) commands.MaintenanceCommands {
	clk := clock.NewMockClock(testNow)
	cfg := config.ReservationConfig{TTL: testTTL, SweepBatchSize: batchSize}
	return commands.NewMaintenanceCommands(newFakeUoW(store), clk, cfg)
}

func TestRunCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("releases expired holds and keeps live ones", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 10, 5, true)
		expired := store.addReservation(skuID, 3, "session-1", testNow.Add(-time.Minute))
		live := store.addReservation(skuID, 2, "session-2", testNow.Add(time.Minute))
		svc := newMaintenanceCommands(store, 500)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ExpiredReservationsCleanedUp)
		assert.Equal(t, int32(2), store.skus[skuID].reserved)
		assert.Contains(t, store.reservations, live)
		assert.NotContains(t, store.reservations, expired)
	})

	t.Run("drains more rows than one batch holds", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 10, 3, true)
		for i := 0; i < 3; i++ {
			store.addReservation(skuID, 1, "session-1", testNow.Add(-time.Duration(i+1)*time.Minute))
		}
		svc := newMaintenanceCommands(store, 1)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, result.ExpiredReservationsCleanedUp)
		assert.Equal(t, int32(0), store.skus[skuID].reserved)
		assert.Empty(t, store.reservations)
	})

	t.Run("hold expiring exactly now stays until the next sweep", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 5, 1, true)
		store.addReservation(skuID, 1, "session-1", testNow)
		svc := newMaintenanceCommands(store, 500)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.ExpiredReservationsCleanedUp)
		assert.Len(t, store.reservations, 1)
	})

	t.Run("drops idempotency keys past their retention window", func(t *testing.T) {
		store := newFakeStore()
		staleKey := uuid.New()
		store.idempotency[staleKey] = idempotencyRow{
			endpoint:    "POST /orders",
			status:      shared.IdempotencyProcessing,
			requestHash: "abc",
			expiresAt:   testNow.Add(-time.Hour),
		}
		liveKey := uuid.New()
		store.idempotency[liveKey] = idempotencyRow{
			endpoint:    "POST /orders",
			status:      shared.IdempotencyCompleted,
			requestHash: "def",
			expiresAt:   testNow.Add(time.Hour),
		}
		svc := newMaintenanceCommands(store, 500)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ExpiredIdempotencyKeysDeleted)
		assert.NotContains(t, store.idempotency, staleKey)
		assert.Contains(t, store.idempotency, liveKey)
	})

	t.Run("archives products whose active skus are sold out", func(t *testing.T) {
		store := newFakeStore()
		soldOut := store.addProduct()
		store.addSku(soldOut, "HOODIE-GRY-S", 4900, 0, 0, true)
		inStock := store.addProduct()
		store.addSku(inStock, "HOODIE-GRY-M", 4900, 7, 0, true)
		noSkus := store.addProduct()
		svc := newMaintenanceCommands(store, 500)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ProductsArchived)
		assert.True(t, store.products[soldOut].isArchived)
		assert.False(t, store.products[inStock].isArchived)
		assert.False(t, store.products[noSkus].isArchived)
	})

	t.Run("sweep frees the stock that archival then keys off", func(t *testing.T) {
		// A product whose last units sit in an expired hold is NOT archived:
		// the sweep returns them to stock before archival runs.
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "HOODIE-GRY-L", 4900, 2, 2, true)
		store.addReservation(skuID, 2, "session-1", testNow.Add(-time.Minute))
		svc := newMaintenanceCommands(store, 500)

		result, err := svc.RunCleanup(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ExpiredReservationsCleanedUp)
		assert.Equal(t, 0, result.ProductsArchived)
		assert.Equal(t, int32(2), store.skus[skuID].stock)
		assert.Equal(t, int32(0), store.skus[skuID].reserved)
	})
}
