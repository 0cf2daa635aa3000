package request

import (
	"shop-inventory/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	Email          string      `json:"email" binding:"required,email"`
	SessionID      string      `json:"sessionId" binding:"required"`
	ReservationIDs []uuid.UUID `json:"reservationIds" binding:"required,min=1"`
}

func (r CreateOrderRequest) ToParams() commands.CreateOrderParams {
	return commands.CreateOrderParams{
		Email:          r.Email,
		SessionID:      r.SessionID,
		ReservationIDs: r.ReservationIDs,
	}
}
