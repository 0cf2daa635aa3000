package commands

import (
	"time"

	"github.com/google/uuid"
)

type ReserveItem struct {
	SkuID    uuid.UUID
	Quantity int32
}

// ReserveItemResult reports one SKU's outcome. On failure the batch is
// rolled back as a whole, but each item still carries enough detail for the
// cart to render what was unavailable.
type ReserveItemResult struct {
	SkuID          uuid.UUID
	Quantity       int32
	Success        bool
	ReservationID  *uuid.UUID
	OriginalStock  int32
	ReservedStock  int32
	AvailableStock int32
}

type ReserveResult struct {
	Success   bool
	ExpiresAt time.Time
	Items     []ReserveItemResult
}

func (r *ReserveResult) ReservationIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if item.ReservationID != nil {
			ids = append(ids, *item.ReservationID)
		}
	}
	return ids
}

func (r *ReserveResult) UnavailableItems() []ReserveItemResult {
	var out []ReserveItemResult
	for _, item := range r.Items {
		if !item.Success {
			out = append(out, item)
		}
	}
	return out
}

type CleanupResult struct {
	ExpiredReservationsCleanedUp  int
	ExpiredIdempotencyKeysDeleted int
	ProductsArchived              int
}

type CreateOrderParams struct {
	Email          string
	SessionID      string
	ReservationIDs []uuid.UUID
}
