package repository

import (
	"context"
	"time"

	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

const createReservationSQL = `
INSERT INTO stock_reservations (id, sku_id, quantity, session_id, order_id, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, createReservationSQL,
		res.ID(),
		res.SkuID(),
		res.Quantity().Value(),
		res.SessionID(),
		pgconv.UUIDPtrToPgtype(res.OrderID()),
		res.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

const findReservationForUpdateSQL = `
SELECT id, sku_id, quantity, session_id, order_id, expires_at, created_at
FROM stock_reservations
WHERE id = $1
FOR UPDATE`

func (r *ReservationRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, findReservationForUpdateSQL, id)
	res, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation row", err)
	}
	return res, nil
}

const findReservationsByOrderForUpdateSQL = `
SELECT id, sku_id, quantity, session_id, order_id, expires_at, created_at
FROM stock_reservations
WHERE order_id = $1
ORDER BY sku_id
FOR UPDATE`

func (r *ReservationRepository) FindByOrderForUpdate(ctx context.Context, orderID uuid.UUID) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, findReservationsByOrderForUpdateSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock order reservations", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", scanErr)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return result, nil
}

// SKIP LOCKED keeps the sweep from blocking on rows a concurrent confirm or
// release already holds; those rows are simply not ours to clean this pass.
const findExpiredReservationsSQL = `
SELECT id, sku_id, quantity, session_id, order_id, expires_at, created_at
FROM stock_reservations
WHERE expires_at < $1
ORDER BY expires_at
LIMIT $2
FOR UPDATE SKIP LOCKED`

func (r *ReservationRepository) FindExpiredForUpdate(ctx context.Context, now time.Time, limit int32) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, findExpiredReservationsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock expired reservations", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan expired reservation row", scanErr)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired reservation rows", err)
	}
	return result, nil
}

const attachReservationToOrderSQL = `
UPDATE stock_reservations
SET order_id = $2
WHERE id = $1 AND order_id IS NULL`

func (r *ReservationRepository) AttachOrder(ctx context.Context, id, orderID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, attachReservationToOrderSQL, id, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to attach reservation to order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation gone or already attached", nil, infra.KindNotFound)
	}
	return nil
}

const deleteReservationSQL = `
DELETE FROM stock_reservations
WHERE id = $1`

// Delete removes the hold row; false (not an error) when the row is already
// gone so release paths stay idempotent.
func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, deleteReservationSQL, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete reservation", err)
	}
	return tag.RowsAffected() > 0, nil
}

type reservationScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row reservationScanner) (*reservation.Reservation, error) {
	var (
		id, skuID uuid.UUID
		quantity  int32
		sessionID string
		orderID   pgtype.UUID
		expiresAt time.Time
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &skuID, &quantity, &sessionID, &orderID, &expiresAt, &createdAt); err != nil {
		return nil, err
	}

	qty, err := sku.NewQuantity(quantity)
	if err != nil {
		return nil, err
	}

	return reservation.Reconstruct(
		id,
		skuID,
		qty,
		sessionID,
		pgconv.UUIDPtrFromPgtype(orderID),
		expiresAt,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
