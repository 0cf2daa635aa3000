//go:build unit

package commands_test

import (
	"context"
	"testing"

	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStock(t *testing.T) {
	ctx := context.Background()

	t.Run("adjusts the total and reports the new availability", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 5, 2, true)
		svc := commands.NewStockCommands(newFakeUoW(store))

		view, err := svc.SetStock(ctx, skuID, 12)

		require.NoError(t, err)
		assert.Equal(t, int32(12), view.Stock)
		assert.Equal(t, int32(2), view.ReservedStock)
		assert.Equal(t, int32(10), view.AvailableStock)
		assert.Equal(t, int32(12), store.skus[skuID].stock)
	})

	t.Run("refuses totals below open holds", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 5, 3, true)
		svc := commands.NewStockCommands(newFakeUoW(store))

		_, err := svc.SetStock(ctx, skuID, 2)

		require.ErrorIs(t, err, errs.ErrDomainValidation)
		assert.Equal(t, int32(5), store.skus[skuID].stock)
	})

	t.Run("allows exactly the held quantity", func(t *testing.T) {
		store := newFakeStore()
		productID := store.addProduct()
		skuID := store.addSku(productID, "TSHIRT-BLK-M", 2500, 5, 3, true)
		svc := commands.NewStockCommands(newFakeUoW(store))

		view, err := svc.SetStock(ctx, skuID, 3)

		require.NoError(t, err)
		assert.Equal(t, int32(0), view.AvailableStock)
	})

	t.Run("unknown sku", func(t *testing.T) {
		svc := commands.NewStockCommands(newFakeUoW(newFakeStore()))

		_, err := svc.SetStock(ctx, uuid.New(), 5)
		assert.ErrorIs(t, err, errs.ErrSkuNotFound)
	})
}
