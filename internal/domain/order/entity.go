package order

import (
	"errors"
	"time"

	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNoItems           = errors.New("order requires at least one item")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Item struct {
	skuID      uuid.UUID
	quantity   sku.Quantity
	priceCents int64
}

func NewItem(skuID uuid.UUID, quantity sku.Quantity, priceCents int64) Item {
	return Item{skuID: skuID, quantity: quantity, priceCents: priceCents}
}

func (i Item) SkuID() uuid.UUID       { return i.skuID }
func (i Item) Quantity() sku.Quantity { return i.quantity }
func (i Item) PriceCents() int64      { return i.priceCents }

// Subtotal is the line total (unit price times held quantity).
func (i Item) Subtotal() int64 {
	return i.priceCents * int64(i.quantity.Value())
}

// Order is created pending while its stock is still only held, and becomes
// confirmed exactly when the holds convert into permanent deductions.
type Order struct {
	id        uuid.UUID
	email     user.Email
	sessionID string
	status    Status
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

func NewOrder(email user.Email, sessionID string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return &Order{
		id:        uuid.New(),
		email:     email,
		sessionID: sessionID,
		status:    StatusPending,
		items:     items,
	}, nil
}

func Reconstruct(id uuid.UUID, email user.Email, sessionID string, status Status, items []Item, createdAt, updatedAt time.Time) *Order {
	return &Order{
		id:        id,
		email:     email,
		sessionID: sessionID,
		status:    status,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o *Order) ID() uuid.UUID        { return o.id }
func (o *Order) Email() user.Email    { return o.email }
func (o *Order) SessionID() string    { return o.sessionID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) Items() []Item        { return o.items }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

func (o *Order) TotalCents() int64 {
	var total int64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

func (o *Order) Confirm() error {
	return o.transition(StatusConfirmed)
}

func (o *Order) Cancel() error {
	return o.transition(StatusCanceled)
}

func (o *Order) transition(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.status = next
	return nil
}
