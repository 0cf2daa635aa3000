package readstore

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"
	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

const findOrderViewSQL = `
SELECT id, email, session_id, status, total_cents, created_at, updated_at
FROM orders
WHERE id = $1`

const findOrderItemViewsSQL = `
SELECT oi.sku_id, s.sku_code, oi.quantity, oi.price_cents
FROM order_items oi
JOIN skus s ON s.id = oi.sku_id
WHERE oi.order_id = $1
ORDER BY s.sku_code`

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view                 queries.OrderView
		createdAt, updatedAt pgtype.Timestamptz
	)

	row := r.db.QueryRow(ctx, findOrderViewSQL, id)
	if err := row.Scan(&view.ID, &view.Email, &view.SessionID, &view.Status, &view.TotalCents, &createdAt, &updatedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	rows, err := r.db.Query(ctx, findOrderItemViewsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.SkuID, &item.SkuCode, &item.Quantity, &item.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item row", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item rows", err)
	}

	return &view, nil
}
