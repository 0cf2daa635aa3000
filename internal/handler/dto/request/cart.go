package request

import (
	"shop-inventory/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReserveItemRequest struct {
	SkuID    uuid.UUID `json:"skuId" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required,gt=0"`
}

type ReserveStockRequest struct {
	Items     []ReserveItemRequest `json:"items" binding:"required,min=1,dive"`
	SessionID string               `json:"sessionId" binding:"required"`
}

func (r ReserveStockRequest) ToCommand() []commands.ReserveItem {
	items := make([]commands.ReserveItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = commands.ReserveItem{
			SkuID:    item.SkuID,
			Quantity: item.Quantity,
		}
	}
	return items
}

type ReleaseStockRequest struct {
	ReservationIDs []uuid.UUID `json:"reservationIds" binding:"required,min=1"`
}
