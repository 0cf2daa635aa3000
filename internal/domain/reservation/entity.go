package reservation

import (
	"errors"
	"time"

	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidTTL      = errors.New("reservation TTL must be positive")
	ErrEmptySession    = errors.New("session id is required")
	ErrAlreadyPromoted = errors.New("reservation already belongs to an order")
)

// Reservation is a time-boxed hold of quantity against one SKU. Its quantity
// is counted inside the SKU's reserved stock for as long as the row exists;
// deleting the row and decrementing the counter always happen in the same
// transaction.
type Reservation struct {
	id        uuid.UUID
	skuID     uuid.UUID
	quantity  sku.Quantity
	sessionID string
	orderID   *uuid.UUID
	expiresAt time.Time
	createdAt time.Time
}

func NewReservation(clk clock.Clock, skuID uuid.UUID, quantity sku.Quantity, sessionID string, ttl time.Duration) (*Reservation, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	return &Reservation{
		id:        uuid.New(),
		skuID:     skuID,
		quantity:  quantity,
		sessionID: sessionID,
		expiresAt: clk.Now().Add(ttl),
	}, nil
}

func Reconstruct(id, skuID uuid.UUID, quantity sku.Quantity, sessionID string, orderID *uuid.UUID, expiresAt, createdAt time.Time) *Reservation {
	return &Reservation{
		id:        id,
		skuID:     skuID,
		quantity:  quantity,
		sessionID: sessionID,
		orderID:   orderID,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) SkuID() uuid.UUID       { return r.skuID }
func (r *Reservation) Quantity() sku.Quantity { return r.quantity }
func (r *Reservation) SessionID() string      { return r.sessionID }
func (r *Reservation) OrderID() *uuid.UUID    { return r.orderID }
func (r *Reservation) ExpiresAt() time.Time   { return r.expiresAt }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }

// HasExpired reports whether the hold is past its TTL. Expiry is lazy: an
// expired hold still counts against available stock until the sweep (or a
// confirm/release) removes it.
func (r *Reservation) HasExpired(now time.Time) bool {
	return now.After(r.expiresAt)
}

// PromoteToOrder links a cart-only hold to an order so confirmation and
// cancellation can find it by order id.
func (r *Reservation) PromoteToOrder(orderID uuid.UUID) error {
	if r.orderID != nil {
		return ErrAlreadyPromoted
	}
	id := orderID
	r.orderID = &id
	return nil
}
