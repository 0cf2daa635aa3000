package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Stock / reservation errors
	ErrReservationExpired = errors.New("reservation expired")
	ErrSkuNotFound        = errors.New("sku not found")

	// Product errors
	ErrProductNotFound = errors.New("product not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Order errors
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderTransition = errors.New("invalid order status transition")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrDuplicateRequest       = errors.New("duplicate request with different parameters")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")
)
