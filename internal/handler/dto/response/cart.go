package response

import (
	"time"

	"shop-inventory/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservedItemResponse struct {
	SkuID          uuid.UUID  `json:"skuId"`
	Quantity       int32      `json:"quantity"`
	ReservationID  *uuid.UUID `json:"reservationId,omitempty"`
	AvailableStock int32      `json:"availableStock"`
}

type ReserveStockResponse struct {
	Success        bool                   `json:"success"`
	ReservationIDs []uuid.UUID            `json:"reservationIds"`
	Reservations   []ReservedItemResponse `json:"reservations"`
	ExpiresAt      time.Time              `json:"expiresAt"`
}

type UnavailableItemResponse struct {
	SkuID          uuid.UUID `json:"skuId"`
	Quantity       int32     `json:"quantity"`
	AvailableStock int32     `json:"availableStock"`
}

type ReserveConflictResponse struct {
	Success          bool                      `json:"success"`
	UnavailableItems []UnavailableItemResponse `json:"unavailableItems"`
}

type ReleaseStockResponse struct {
	Released int `json:"released"`
}

func FromReserveResult(result *commands.ReserveResult) *ReserveStockResponse {
	resp := &ReserveStockResponse{
		Success:        true,
		ReservationIDs: result.ReservationIDs(),
		ExpiresAt:      result.ExpiresAt,
	}
	_ = copier.Copy(&resp.Reservations, result.Items)
	return resp
}

func FromReserveConflict(result *commands.ReserveResult) *ReserveConflictResponse {
	resp := &ReserveConflictResponse{Success: false}
	_ = copier.Copy(&resp.UnavailableItems, result.UnavailableItems())
	return resp
}
