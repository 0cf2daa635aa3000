//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(base)
	qty, err := sku.NewQuantity(2)
	require.NoError(t, err)

	t.Run("expires TTL after creation", func(t *testing.T) {
		hold, err := reservation.NewReservation(clk, uuid.New(), qty, "sess-1", 5*time.Minute)
		require.NoError(t, err)

		assert.Equal(t, base.Add(5*time.Minute), hold.ExpiresAt())
		assert.Nil(t, hold.OrderID())
		assert.False(t, hold.HasExpired(base.Add(5*time.Minute)))
		assert.True(t, hold.HasExpired(base.Add(5*time.Minute+time.Second)))
	})

	t.Run("rejects non-positive TTL", func(t *testing.T) {
		_, err := reservation.NewReservation(clk, uuid.New(), qty, "sess-1", 0)
		assert.ErrorIs(t, err, reservation.ErrInvalidTTL)
	})

	t.Run("rejects empty session", func(t *testing.T) {
		_, err := reservation.NewReservation(clk, uuid.New(), qty, "", time.Minute)
		assert.ErrorIs(t, err, reservation.ErrEmptySession)
	})
}

func TestPromoteToOrder(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	qty, err := sku.NewQuantity(1)
	require.NoError(t, err)

	hold, err := reservation.NewReservation(clk, uuid.New(), qty, "sess-1", time.Minute)
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, hold.PromoteToOrder(orderID))
	require.NotNil(t, hold.OrderID())
	assert.Equal(t, orderID, *hold.OrderID())

	// A hold belongs to at most one order
	assert.ErrorIs(t, hold.PromoteToOrder(uuid.New()), reservation.ErrAlreadyPromoted)
	assert.Equal(t, orderID, *hold.OrderID())
}
