package repository

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

// A product is archived when it has SKUs and every active one is sold out.
// Reserved stock is irrelevant here: archival keys off owned units only.
const archiveZeroStockSQL = `
UPDATE products p
SET is_archived = TRUE, updated_at = now()
WHERE p.is_archived = FALSE
  AND EXISTS (
      SELECT 1 FROM skus s WHERE s.product_id = p.id
  )
  AND NOT EXISTS (
      SELECT 1 FROM skus s
      WHERE s.product_id = p.id AND s.is_active AND s.stock > 0
  )`

func (r *ProductRepository) ArchiveZeroStock(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, archiveZeroStockSQL)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to archive zero-stock products", err)
	}
	return tag.RowsAffected(), nil
}
