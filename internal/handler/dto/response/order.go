package response

import (
	"time"

	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderItemResponse struct {
	SkuID      uuid.UUID `json:"skuId"`
	SkuCode    string    `json:"skuCode"`
	Quantity   int32     `json:"quantity"`
	PriceCents int64     `json:"priceCents"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	Email      string              `json:"email"`
	SessionID  string              `json:"sessionId"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"totalCents"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	_ = copier.Copy(resp, view)
	return resp
}
