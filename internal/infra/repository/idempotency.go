package repository

import (
	"context"
	"time"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/pkg/pgconv"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// ON CONFLICT DO NOTHING makes the claim race-safe: the first request wins
// the key and later ones read back whatever state the winner left.
const tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, endpoint, status, request_hash, expires_at)
VALUES ($1, $2, 'processing', $3, $4)
ON CONFLICT (key) DO NOTHING
RETURNING key`

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	var claimed uuid.UUID
	err := r.db.QueryRow(ctx, tryInsertIdempotencySQL, key, endpoint, requestHash, expiresAt).Scan(&claimed)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return true, nil
}

const getIdempotencySQL = `
SELECT key, endpoint, status, request_hash, result_order_id, expires_at
FROM idempotency_keys
WHERE key = $1`

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		record        shared.IdempotencyRecord
		status        string
		resultOrderID pgtype.UUID
	)

	row := r.db.QueryRow(ctx, getIdempotencySQL, key)
	if err := row.Scan(&record.Key, &record.Endpoint, &status, &record.RequestHash, &resultOrderID, &record.ExpiresAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read idempotency key", err)
	}

	record.Status = shared.IdempotencyStatus(status)
	record.ResultOrderID = pgconv.UUIDPtrFromPgtype(resultOrderID)
	return &record, nil
}

const markIdempotencyCompletedSQL = `
UPDATE idempotency_keys
SET status = 'completed', result_order_id = $2
WHERE key = $1`

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, resultOrderID uuid.UUID) error {
	_, err := r.db.Exec(ctx, markIdempotencyCompletedSQL, key, resultOrderID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark idempotency key completed", err)
	}
	return nil
}

// The expires_at guard makes the takeover race-safe under READ COMMITTED:
// of two requests that both saw the stale claim, the second one re-evaluates
// against the renewed row and matches nothing.
const reclaimIdempotencySQL = `
UPDATE idempotency_keys
SET request_hash = $2, result_order_id = NULL, expires_at = $3
WHERE key = $1 AND status = 'processing' AND expires_at < $4`

func (r *IdempotencyRepository) Reclaim(ctx context.Context, key uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, reclaimIdempotencySQL, key, requestHash, expiresAt, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reclaim idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

const deleteExpiredIdempotencySQL = `
DELETE FROM idempotency_keys
WHERE expires_at < $1`

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencySQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
