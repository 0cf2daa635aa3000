//go:build unit || e2e

package builder

import (
	"time"

	reqdto "shop-inventory/internal/handler/dto/request"
	"shop-inventory/internal/usecase/commands"

	"github.com/google/uuid"
)

type CartBuilder struct {
	SkuID     uuid.UUID
	Quantity  int32
	SessionID string
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		SkuID:     uuid.New(),
		Quantity:  2,
		SessionID: "sess-checkout-1",
	}
}

func (b *CartBuilder) WithQuantity(q int32) *CartBuilder {
	b.Quantity = q
	return b
}

func (b *CartBuilder) BuildReserveRequestDTO() reqdto.ReserveStockRequest {
	return reqdto.ReserveStockRequest{
		Items: []reqdto.ReserveItemRequest{
			{SkuID: b.SkuID, Quantity: b.Quantity},
		},
		SessionID: b.SessionID,
	}
}

func (b *CartBuilder) BuildReserveResult() *commands.ReserveResult {
	reservationID := uuid.New()
	return &commands.ReserveResult{
		Success:   true,
		ExpiresAt: time.Now().Add(5 * time.Minute),
		Items: []commands.ReserveItemResult{
			{
				SkuID:          b.SkuID,
				Quantity:       b.Quantity,
				Success:        true,
				ReservationID:  &reservationID,
				OriginalStock:  10,
				ReservedStock:  b.Quantity,
				AvailableStock: 10 - b.Quantity,
			},
		},
	}
}

func (b *CartBuilder) BuildShortfallResult(available int32) *commands.ReserveResult {
	return &commands.ReserveResult{
		Success: false,
		Items: []commands.ReserveItemResult{
			{
				SkuID:          b.SkuID,
				Quantity:       b.Quantity,
				Success:        false,
				OriginalStock:  available,
				AvailableStock: available,
			},
		},
	}
}
