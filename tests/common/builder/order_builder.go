//go:build unit || e2e

package builder

import (
	"time"

	reqdto "shop-inventory/internal/handler/dto/request"
	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	ID             uuid.UUID
	Email          string
	SessionID      string
	Status         string
	ReservationIDs []uuid.UUID
	SkuID          uuid.UUID
	SkuCode        string
	Quantity       int32
	PriceCents     int64
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:             uuid.New(),
		Email:          "buyer@example.com",
		SessionID:      "sess-checkout-1",
		Status:         "pending",
		ReservationIDs: []uuid.UUID{uuid.New()},
		SkuID:          uuid.New(),
		SkuCode:        "TSHIRT-BLK-M",
		Quantity:       2,
		PriceCents:     2500,
	}
}

func (b *OrderBuilder) WithStatus(status string) *OrderBuilder {
	b.Status = status
	return b
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	return reqdto.CreateOrderRequest{
		Email:          b.Email,
		SessionID:      b.SessionID,
		ReservationIDs: b.ReservationIDs,
	}
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	now := time.Now()
	return &queries.OrderView{
		ID:         b.ID,
		Email:      b.Email,
		SessionID:  b.SessionID,
		Status:     b.Status,
		TotalCents: b.PriceCents * int64(b.Quantity),
		Items: []queries.OrderItemView{
			{
				SkuID:      b.SkuID,
				SkuCode:    b.SkuCode,
				Quantity:   b.Quantity,
				PriceCents: b.PriceCents,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
