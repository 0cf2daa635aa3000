package repository

import (
	"context"

	"shop-inventory/internal/domain/order"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

const createOrderSQL = `
INSERT INTO orders (id, email, session_id, status, total_cents)
VALUES ($1, $2, $3, $4, $5)`

const createOrderItemSQL = `
INSERT INTO order_items (order_id, sku_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)`

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, createOrderSQL,
		o.ID(),
		o.Email().Value(),
		o.SessionID(),
		o.Status().String(),
		o.TotalCents(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := r.db.Exec(ctx, createOrderItemSQL,
			o.ID(),
			item.SkuID(),
			item.Quantity().Value(),
			item.PriceCents(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

const findOrderForUpdateSQL = `
SELECT id, email, session_id, status, created_at, updated_at
FROM orders
WHERE id = $1
FOR UPDATE`

const findOrderItemsSQL = `
SELECT sku_id, quantity, price_cents
FROM order_items
WHERE order_id = $1
ORDER BY sku_id`

func (r *OrderRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var (
		orderID              uuid.UUID
		emailStr, sessionID  string
		statusStr            string
		createdAt, updatedAt pgtype.Timestamptz
	)

	row := r.db.QueryRow(ctx, findOrderForUpdateSQL, id)
	if err := row.Scan(&orderID, &emailStr, &sessionID, &statusStr, &createdAt, &updatedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock order row", err)
	}

	email, err := user.NewEmail(emailStr)
	if err != nil {
		return nil, infra.WrapRepoErr("order row has invalid email", err)
	}

	items, err := r.findItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return order.Reconstruct(
		orderID,
		email,
		sessionID,
		order.Status(statusStr),
		items,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx, findOrderItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var (
			skuID      uuid.UUID
			quantity   int32
			priceCents int64
		)
		if err := rows.Scan(&skuID, &quantity, &priceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		qty, err := sku.NewQuantity(quantity)
		if err != nil {
			return nil, infra.WrapRepoErr("order item has invalid quantity", err)
		}
		items = append(items, order.NewItem(skuID, qty, priceCents))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

const updateOrderStatusSQL = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1`

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
