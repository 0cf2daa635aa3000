package repository

import (
	"context"

	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SkuRepository struct {
	db db.DBTX
}

func NewSkuRepository(dbtx db.DBTX) *SkuRepository {
	return &SkuRepository{db: dbtx}
}

const findSkuForUpdateSQL = `
SELECT id, product_id, sku_code, price_cents, stock, reserved_stock, is_active
FROM skus
WHERE id = $1
FOR UPDATE`

// FindForUpdate locks the ledger row for the rest of the transaction.
// Concurrent operations on the same SKU serialize here.
func (r *SkuRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*sku.SKU, error) {
	var (
		skuID, productID uuid.UUID
		code             string
		priceCents       int64
		stock, reserved  int32
		isActive         bool
	)

	row := r.db.QueryRow(ctx, findSkuForUpdateSQL, id)
	if err := row.Scan(&skuID, &productID, &code, &priceCents, &stock, &reserved, &isActive); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("sku not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock sku row", err)
	}

	entity, err := sku.Reconstruct(skuID, productID, code, priceCents, stock, reserved, isActive)
	if err != nil {
		return nil, infra.WrapRepoErr("sku ledger row is corrupt", err)
	}
	return entity, nil
}

const saveSkuCountersSQL = `
UPDATE skus
SET stock = $2, reserved_stock = $3, updated_at = now()
WHERE id = $1`

// Save writes the mutated counters back. Must run in the same transaction
// as the FindForUpdate that produced the entity.
func (r *SkuRepository) Save(ctx context.Context, s *sku.SKU) error {
	tag, err := r.db.Exec(ctx, saveSkuCountersSQL, s.ID(), s.Stock(), s.Reserved())
	if err != nil {
		return infra.WrapRepoErr("failed to save sku counters", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("sku disappeared during transaction", nil, infra.KindNotFound)
	}
	return nil
}
