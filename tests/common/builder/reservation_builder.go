//go:build unit || e2e

package builder

import (
	"time"

	domreservation "shop-inventory/internal/domain/reservation"
	domsku "shop-inventory/internal/domain/sku"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID        uuid.UUID
	SkuID     uuid.UUID
	Quantity  int32
	SessionID string
	OrderID   *uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now()
	return &ReservationBuilder{
		ID:        uuid.New(),
		SkuID:     uuid.New(),
		Quantity:  2,
		SessionID: "sess-checkout-1",
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
}

func (b *ReservationBuilder) WithSku(skuID uuid.UUID) *ReservationBuilder {
	b.SkuID = skuID
	return b
}

func (b *ReservationBuilder) WithQuantity(q int32) *ReservationBuilder {
	b.Quantity = q
	return b
}

func (b *ReservationBuilder) WithSession(sessionID string) *ReservationBuilder {
	b.SessionID = sessionID
	return b
}

func (b *ReservationBuilder) WithOrder(orderID uuid.UUID) *ReservationBuilder {
	b.OrderID = &orderID
	return b
}

func (b *ReservationBuilder) ExpiredBy(d time.Duration) *ReservationBuilder {
	b.ExpiresAt = time.Now().Add(-d)
	return b
}

func (b *ReservationBuilder) BuildDomain() *domreservation.Reservation {
	qty, err := domsku.NewQuantity(b.Quantity)
	if err != nil {
		panic("reservation builder: invalid quantity: " + err.Error())
	}
	return domreservation.Reconstruct(b.ID, b.SkuID, qty, b.SessionID, b.OrderID, b.ExpiresAt, b.CreatedAt)
}
