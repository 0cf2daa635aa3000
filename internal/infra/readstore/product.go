package readstore

import (
	"context"
	"time"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"
	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

// Storefront listing: archived products are invisible and availability is
// the stored counters only (expired holds count until the sweep runs).
const listStorefrontFirstPageSQL = `
SELECT p.id, p.name, p.slug,
       COALESCE(MIN(s.price_cents) FILTER (WHERE s.is_active), 0),
       COALESCE(SUM(s.stock - s.reserved_stock) FILTER (WHERE s.is_active), 0),
       p.created_at
FROM products p
LEFT JOIN skus s ON s.product_id = p.id
WHERE p.is_archived = FALSE
GROUP BY p.id
ORDER BY p.created_at DESC, p.id DESC
LIMIT $1`

const listStorefrontKeysetSQL = `
SELECT p.id, p.name, p.slug,
       COALESCE(MIN(s.price_cents) FILTER (WHERE s.is_active), 0),
       COALESCE(SUM(s.stock - s.reserved_stock) FILTER (WHERE s.is_active), 0),
       p.created_at
FROM products p
LEFT JOIN skus s ON s.product_id = p.id
WHERE p.is_archived = FALSE
  AND (p.created_at, p.id) < ($1, $2)
GROUP BY p.id
ORDER BY p.created_at DESC, p.id DESC
LIMIT $3`

func (r *ProductReadStore) ListStorefrontFirstPage(ctx context.Context, limit int32) ([]*queries.ProductListItem, error) {
	rows, err := r.db.Query(ctx, listStorefrontFirstPageSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list storefront products", err)
	}
	defer rows.Close()
	return scanProductListItems(rows)
}

func (r *ProductReadStore) ListStorefrontKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ProductListItem, error) {
	rows, err := r.db.Query(ctx, listStorefrontKeysetSQL, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list storefront products keyset", err)
	}
	defer rows.Close()
	return scanProductListItems(rows)
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanProductListItems(rows pgRows) ([]*queries.ProductListItem, error) {
	var result []*queries.ProductListItem
	for rows.Next() {
		var (
			item      queries.ProductListItem
			available int64
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.MinPriceCents, &available, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product list row", err)
		}
		item.AvailableStock = int32(available)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product list rows", err)
	}
	return result, nil
}

const findProductDetailSQL = `
SELECT id, name, slug, description, is_archived, created_at, updated_at
FROM products
WHERE id = $1`

const findProductSkusSQL = `
SELECT id, product_id, sku_code, price_cents, stock, reserved_stock, is_active
FROM skus
WHERE product_id = $1
ORDER BY sku_code`

func (r *ProductReadStore) FindDetailByID(ctx context.Context, id uuid.UUID) (*queries.ProductDetailView, error) {
	var (
		view                 queries.ProductDetailView
		createdAt, updatedAt pgtype.Timestamptz
	)

	row := r.db.QueryRow(ctx, findProductDetailSQL, id)
	if err := row.Scan(&view.ID, &view.Name, &view.Slug, &view.Description, &view.IsArchived, &createdAt, &updatedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	rows, err := r.db.Query(ctx, findProductSkusSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read product skus", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sv queries.SkuView
		if err := rows.Scan(&sv.ID, &sv.ProductID, &sv.Code, &sv.PriceCents, &sv.Stock, &sv.ReservedStock, &sv.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sku row", err)
		}
		sv.AvailableStock = sv.Stock - sv.ReservedStock
		view.Skus = append(view.Skus, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sku rows", err)
	}

	return &view, nil
}
