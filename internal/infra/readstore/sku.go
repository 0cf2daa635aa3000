package readstore

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"
	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
)

type SkuReadStore struct {
	db db.DBTX
}

func NewSkuReadStore(dbtx db.DBTX) *SkuReadStore {
	return &SkuReadStore{db: dbtx}
}

const findSkuViewSQL = `
SELECT id, product_id, sku_code, price_cents, stock, reserved_stock, is_active
FROM skus
WHERE id = $1`

func (r *SkuReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SkuView, error) {
	var view queries.SkuView

	row := r.db.QueryRow(ctx, findSkuViewSQL, id)
	err := row.Scan(&view.ID, &view.ProductID, &view.Code, &view.PriceCents, &view.Stock, &view.ReservedStock, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("sku not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find sku by ID", err)
	}

	view.AvailableStock = view.Stock - view.ReservedStock
	return &view, nil
}
