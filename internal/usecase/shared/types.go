package shared

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Key           uuid.UUID
	Endpoint      string
	Status        IdempotencyStatus
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}
