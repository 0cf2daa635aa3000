package commands

import (
	"context"
	"errors"
	"sort"
	"time"

	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
)

// errReserveRolledBack forces the whole reserve transaction to roll back
// when any item is short; the per-item results survive outside the tx.
var errReserveRolledBack = errs.New("reserve batch rolled back")

type ReservationCommands interface {
	// ReserveStock holds stock for every item or none of them. The
	// availability check and the counter increment run inside one
	// transaction per batch, so no concurrent request can slip between them.
	ReserveStock(ctx context.Context, sessionID string, items []ReserveItem) (*ReserveResult, error)
	// ReleaseReservations drops the listed holds. Idempotent: ids that no
	// longer exist are skipped, and the returned count covers only holds
	// actually released.
	ReleaseReservations(ctx context.Context, ids []uuid.UUID) (int, error)
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	ttl   time.Duration
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock, ttl time.Duration) ReservationCommands {
	return &reservationCommandsImpl{
		uow:   uow,
		clock: clk,
		ttl:   ttl,
	}
}

func (c *reservationCommandsImpl) ReserveStock(ctx context.Context, sessionID string, items []ReserveItem) (*ReserveResult, error) {
	if len(items) == 0 {
		return nil, errs.Mark(errs.New("no items to reserve"), errs.ErrDomainValidation)
	}

	quantities := make(map[uuid.UUID]sku.Quantity, len(items))
	for _, item := range items {
		qty, err := sku.NewQuantity(item.Quantity)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		if _, dup := quantities[item.SkuID]; dup {
			return nil, errs.Mark(errs.New("duplicate sku in batch"), errs.ErrDomainValidation)
		}
		quantities[item.SkuID] = qty
	}

	// Row locks are taken in SKU id order so two overlapping carts cannot
	// deadlock each other.
	sorted := make([]ReserveItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SkuID.String() < sorted[j].SkuID.String()
	})

	result := &ReserveResult{
		Success:   true,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	}
	outcomes := make(map[uuid.UUID]ReserveItemResult, len(items))

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, item := range sorted {
			outcome, err := c.reserveOne(ctx, tx, sessionID, item.SkuID, quantities[item.SkuID])
			if err != nil {
				return err
			}
			outcomes[item.SkuID] = outcome
			if !outcome.Success {
				result.Success = false
			}
		}
		if !result.Success {
			return errReserveRolledBack
		}
		return nil
	})
	if err != nil && !errors.Is(err, errReserveRolledBack) {
		return nil, err
	}

	// Report items in the caller's order, not lock order.
	for _, item := range items {
		result.Items = append(result.Items, outcomes[item.SkuID])
	}
	if !result.Success {
		// Holds were rolled back together with the counters.
		for i := range result.Items {
			result.Items[i].ReservationID = nil
		}
		result.ExpiresAt = time.Time{}
	}
	return result, nil
}

func (c *reservationCommandsImpl) reserveOne(ctx context.Context, tx shared.Tx, sessionID string, skuID uuid.UUID, qty sku.Quantity) (ReserveItemResult, error) {
	outcome := ReserveItemResult{SkuID: skuID, Quantity: qty.Value()}

	ledger, err := tx.Skus().FindForUpdate(ctx, skuID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return outcome, errs.Mark(err, errs.ErrSkuNotFound)
		}
		return outcome, err
	}

	outcome.OriginalStock = ledger.Stock()
	outcome.AvailableStock = ledger.Available()

	if err := ledger.Reserve(qty); err != nil {
		// Shortfall and inactive SKU are expected outcomes, not failures.
		return outcome, nil
	}

	if err := tx.Skus().Save(ctx, ledger); err != nil {
		return outcome, err
	}

	hold, err := reservation.NewReservation(c.clock, skuID, qty, sessionID, c.ttl)
	if err != nil {
		return outcome, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := tx.Reservations().Create(ctx, hold); err != nil {
		return outcome, err
	}

	id := hold.ID()
	outcome.Success = true
	outcome.ReservationID = &id
	outcome.ReservedStock = ledger.Reserved()
	return outcome, nil
}

func (c *reservationCommandsImpl) ReleaseReservations(ctx context.Context, ids []uuid.UUID) (int, error) {
	released := 0
	for _, id := range ids {
		ok, err := c.releaseOne(ctx, id)
		if err != nil {
			return released, err
		}
		if ok {
			released++
		}
	}
	return released, nil
}

// releaseOne runs its own transaction per hold so one bad id cannot undo
// releases that already committed.
func (c *reservationCommandsImpl) releaseOne(ctx context.Context, id uuid.UUID) (bool, error) {
	var released bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := releaseReservation(ctx, tx, id)
		released = ok
		return err
	})
	return released, err
}

// releaseReservation removes one hold and returns its quantity to the
// available pool. The reservation row is locked before the ledger row;
// every path that touches both (release, confirm, sweep) locks in this
// order. A row already gone is a no-op, not an error.
func releaseReservation(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error) {
	hold, err := tx.Reservations().FindForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	ledger, err := tx.Skus().FindForUpdate(ctx, hold.SkuID())
	if err != nil {
		return false, err
	}

	ledger.Release(hold.Quantity())
	if err := tx.Skus().Save(ctx, ledger); err != nil {
		return false, err
	}

	deleted, err := tx.Reservations().Delete(ctx, hold.ID())
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// confirmOrderReservations converts every hold linked to the order into a
// permanent deduction inside the caller's transaction. Both counters move
// together, so a crash can never leave them out of step.
func confirmOrderReservations(ctx context.Context, tx shared.Tx, orderID uuid.UUID, expectedItems int) error {
	holds, err := tx.Reservations().FindByOrderForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if len(holds) < expectedItems {
		// Some holds were swept before payment completed; the caller must
		// re-check availability instead of overselling.
		return errs.Mark(errs.New("order holds missing"), errs.ErrReservationExpired)
	}

	for _, hold := range holds {
		ledger, err := tx.Skus().FindForUpdate(ctx, hold.SkuID())
		if err != nil {
			return err
		}
		if err := ledger.CommitSale(hold.Quantity()); err != nil {
			return errs.Mark(err, errs.ErrReservationExpired)
		}
		if err := tx.Skus().Save(ctx, ledger); err != nil {
			return err
		}
		if _, err := tx.Reservations().Delete(ctx, hold.ID()); err != nil {
			return err
		}
	}
	return nil
}

// releaseOrderReservations releases every hold linked to the order inside
// the caller's transaction. Missing holds are fine: cancellation after a
// sweep is still a successful cancellation.
func releaseOrderReservations(ctx context.Context, tx shared.Tx, orderID uuid.UUID) (int, error) {
	holds, err := tx.Reservations().FindByOrderForUpdate(ctx, orderID)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, hold := range holds {
		ledger, err := tx.Skus().FindForUpdate(ctx, hold.SkuID())
		if err != nil {
			return released, err
		}
		ledger.Release(hold.Quantity())
		if err := tx.Skus().Save(ctx, ledger); err != nil {
			return released, err
		}
		deleted, err := tx.Reservations().Delete(ctx, hold.ID())
		if err != nil {
			return released, err
		}
		if deleted {
			released++
		}
	}
	return released, nil
}
