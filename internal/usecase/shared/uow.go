package shared

import (
	"context"
	"time"

	"shop-inventory/internal/domain/order"
	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Skus() SkuRepository
	Reservations() ReservationRepository
	Orders() OrderRepository
	Products() ProductRepository
	Idempotency() IdempotencyRepository
	Users() UserRepository
	DB() db.DBTX
}

// SkuRepository is the only write path to the stock ledger. FindForUpdate
// takes the row lock; Save writes the mutated counters back in the same
// transaction, which is what makes every mutation a read-modify-write.
type SkuRepository interface {
	FindForUpdate(ctx context.Context, id uuid.UUID) (*sku.SKU, error)
	Save(ctx context.Context, s *sku.SKU) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByOrderForUpdate(ctx context.Context, orderID uuid.UUID) ([]*reservation.Reservation, error)
	// FindExpiredForUpdate uses SKIP LOCKED so the sweep never waits on rows
	// a concurrent confirm or release is already processing.
	FindExpiredForUpdate(ctx context.Context, now time.Time, limit int32) ([]*reservation.Reservation, error)
	AttachOrder(ctx context.Context, id, orderID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error
}

type ProductRepository interface {
	// ArchiveZeroStock flips visibility for products whose every active SKU
	// has zero stock; returns how many products were archived.
	ArchiveZeroStock(ctx context.Context) (int64, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key; false means another request holds it and
	// the caller must consult Get for the existing record's state.
	TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key uuid.UUID, resultOrderID uuid.UUID) error
	// Reclaim takes over a processing key whose window lapsed without
	// completing. False means the key was not reclaimable anymore: it
	// completed, or a concurrent request already renewed it.
	Reclaim(ctx context.Context, key uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error)
	// DeleteExpired drops keys past their retention window.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}
