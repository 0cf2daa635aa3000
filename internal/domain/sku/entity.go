package sku

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock    = errors.New("insufficient available stock")
	ErrInactive             = errors.New("sku is inactive")
	ErrNegativeStock        = errors.New("stock cannot be negative")
	ErrReservedExceedsStock = errors.New("reserved stock cannot exceed stock")
	ErrCorruptLedger        = errors.New("ledger counters violate invariant")
)

// SKU is the stock ledger for one purchasable variant. The counters obey
// 0 <= reserved <= stock at all times; every mutation goes through the
// methods below so the invariant cannot be bypassed by callers.
type SKU struct {
	id         uuid.UUID
	productID  uuid.UUID
	code       string
	priceCents int64
	stock      int32
	reserved   int32
	isActive   bool
}

// Reconstruct builds the ledger from a freshly read (and row-locked) database
// row. Counters that already violate the invariant are rejected rather than
// silently carried forward.
func Reconstruct(id, productID uuid.UUID, code string, priceCents int64, stock, reserved int32, isActive bool) (*SKU, error) {
	if stock < 0 || reserved < 0 || reserved > stock {
		return nil, ErrCorruptLedger
	}
	return &SKU{
		id:         id,
		productID:  productID,
		code:       code,
		priceCents: priceCents,
		stock:      stock,
		reserved:   reserved,
		isActive:   isActive,
	}, nil
}

func (s *SKU) ID() uuid.UUID        { return s.id }
func (s *SKU) ProductID() uuid.UUID { return s.productID }
func (s *SKU) Code() string         { return s.code }
func (s *SKU) PriceCents() int64    { return s.priceCents }
func (s *SKU) Stock() int32         { return s.stock }
func (s *SKU) Reserved() int32      { return s.reserved }
func (s *SKU) IsActive() bool       { return s.isActive }

// Available is the quantity offerable to new customers.
func (s *SKU) Available() int32 {
	return s.stock - s.reserved
}

// Reserve places a hold. Fails without mutating when the SKU is inactive or
// the quantity exceeds what is available.
func (s *SKU) Reserve(q Quantity) error {
	if !s.isActive {
		return ErrInactive
	}
	if q.Value() > s.Available() {
		return ErrInsufficientStock
	}
	s.reserved += q.Value()
	return nil
}

// Release returns a held quantity to the available pool. A release may race
// a sweep that already removed the hold, so quantities beyond the currently
// reserved amount clamp to zero instead of driving the counter negative.
func (s *SKU) Release(q Quantity) {
	s.reserved -= q.Value()
	if s.reserved < 0 {
		s.reserved = 0
	}
}

// CommitSale converts a hold into a permanent deduction: both counters drop
// by the same amount so the invariant is preserved atomically.
func (s *SKU) CommitSale(q Quantity) error {
	if q.Value() > s.reserved {
		return ErrReservedExceedsStock
	}
	if q.Value() > s.stock {
		return ErrNegativeStock
	}
	s.reserved -= q.Value()
	s.stock -= q.Value()
	return nil
}

// SetStock is the admin restock/correction path. The new total may not cut
// below what is currently held by open reservations.
func (s *SKU) SetStock(newStock int32) error {
	if newStock < 0 {
		return ErrNegativeStock
	}
	if newStock < s.reserved {
		return ErrReservedExceedsStock
	}
	s.stock = newStock
	return nil
}
