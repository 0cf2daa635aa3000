package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"shop-inventory/internal/domain/order"
	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
)

const idempotencyKeyTTL = 24 * time.Hour

type CreateOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type OrderCommands interface {
	// CreateOrder promotes cart holds into an order. The Idempotency-Key
	// makes checkout retries safe: a completed key replays the stored
	// order instead of creating a second one.
	CreateOrder(ctx context.Context, params CreateOrderParams, idempotencyKey uuid.UUID) (*CreateOrderResult, error)
	// ConfirmOrder is the payment-success transition: holds become
	// permanent stock deductions in the same transaction that flips the
	// order status.
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) error
	// CancelOrder releases the order's holds back to the available pool.
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clk,
	}
}

func (c *orderCommandsImpl) CreateOrder(ctx context.Context, params CreateOrderParams, idempotencyKey uuid.UUID) (*CreateOrderResult, error) {
	if len(params.ReservationIDs) == 0 {
		return nil, errs.Mark(errs.New("order requires reservations"), errs.ErrDomainValidation)
	}
	email, err := user.NewEmail(params.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	requestHash := calculateRequestHash(params)

	var (
		orderID    uuid.UUID
		isReplayed bool
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()
		claimed, err := tx.Idempotency().TryInsert(ctx, idempotencyKey, "POST /orders", requestHash, now.Add(idempotencyKeyTTL))
		if err != nil {
			return err
		}

		if !claimed {
			existing, err := tx.Idempotency().Get(ctx, idempotencyKey)
			if err != nil {
				return err
			}
			switch existing.Status {
			case shared.IdempotencyCompleted:
				if existing.RequestHash != requestHash {
					return errs.ErrDuplicateRequest
				}
				if existing.ResultOrderID == nil {
					return errs.New("completed idempotency key missing result order id")
				}
				orderID = *existing.ResultOrderID
				isReplayed = true
				return nil
			case shared.IdempotencyProcessing:
				if !now.After(existing.ExpiresAt) {
					if existing.RequestHash != requestHash {
						return errs.ErrDuplicateRequest
					}
					return errs.ErrIdempotencyInProgress
				}
				// The claim outlived its window, so whoever took it never
				// completed. Take the key over for this attempt.
				taken, err := tx.Idempotency().Reclaim(ctx, idempotencyKey, requestHash, now, now.Add(idempotencyKeyTTL))
				if err != nil {
					return err
				}
				if !taken {
					return errs.ErrIdempotencyInProgress
				}
			default:
				return errs.New("invalid idempotency key status")
			}
		}

		newOrder, holds, err := c.buildOrder(ctx, tx, email, params)
		if err != nil {
			return err
		}

		if err := tx.Orders().Create(ctx, newOrder); err != nil {
			return err
		}
		for _, hold := range holds {
			if err := hold.PromoteToOrder(newOrder.ID()); err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Reservations().AttachOrder(ctx, hold.ID(), newOrder.ID()); err != nil {
				return err
			}
		}

		orderID = newOrder.ID()
		return tx.Idempotency().MarkCompleted(ctx, idempotencyKey, orderID)
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write: the response view comes from the read store.
	view, err := c.orderQueries.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: view, IsReplayed: isReplayed}, nil
}

// buildOrder locks each hold, verifies it is still cart-only and inside its
// TTL, and prices the line from the SKU it points at. Holds already swept or
// past their window surface as ErrReservationExpired so checkout re-displays
// availability. The locked holds are returned for promotion.
func (c *orderCommandsImpl) buildOrder(ctx context.Context, tx shared.Tx, email user.Email, params CreateOrderParams) (*order.Order, []*reservation.Reservation, error) {
	ids := make([]uuid.UUID, len(params.ReservationIDs))
	copy(ids, params.ReservationIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	now := c.clock.Now()
	holds := make([]*reservation.Reservation, 0, len(ids))
	items := make([]order.Item, 0, len(ids))
	for _, resID := range ids {
		hold, err := tx.Reservations().FindForUpdate(ctx, resID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil, errs.Mark(err, errs.ErrReservationExpired)
			}
			return nil, nil, err
		}
		if hold.HasExpired(now) {
			// Expiry is lazy: the sweep has not reached this row yet, but
			// checkout must not promote a dead hold.
			return nil, nil, errs.Mark(errs.New("reservation past its hold window"), errs.ErrReservationExpired)
		}
		if hold.OrderID() != nil {
			return nil, nil, errs.Mark(errs.New("reservation already ordered"), errs.ErrDomainValidation)
		}
		if hold.SessionID() != params.SessionID {
			return nil, nil, errs.Mark(errs.New("reservation belongs to another session"), errs.ErrDomainValidation)
		}

		ledger, err := tx.Skus().FindForUpdate(ctx, hold.SkuID())
		if err != nil {
			return nil, nil, err
		}
		holds = append(holds, hold)
		items = append(items, order.NewItem(hold.SkuID(), hold.Quantity(), ledger.PriceCents()))
	}

	newOrder, err := order.NewOrder(email, params.SessionID, items)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return newOrder, holds, nil
}

func (c *orderCommandsImpl) ConfirmOrder(ctx context.Context, orderID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrOrderNotFound)
			}
			return err
		}

		if err := o.Confirm(); err != nil {
			return errs.Mark(err, errs.ErrInvalidOrderTransition)
		}
		if err := confirmOrderReservations(ctx, tx, orderID, len(o.Items())); err != nil {
			return err
		}
		return tx.Orders().UpdateStatus(ctx, orderID, o.Status())
	})
}

func (c *orderCommandsImpl) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrOrderNotFound)
			}
			return err
		}

		if err := o.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrInvalidOrderTransition)
		}
		if _, err := releaseOrderReservations(ctx, tx, orderID); err != nil {
			return err
		}
		return tx.Orders().UpdateStatus(ctx, orderID, o.Status())
	})
}

func calculateRequestHash(params CreateOrderParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
