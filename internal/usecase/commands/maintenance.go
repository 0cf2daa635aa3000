package commands

import (
	"context"
	"log/slog"

	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/config"
	"shop-inventory/internal/usecase/shared"
)

type MaintenanceCommands interface {
	// RunCleanup is the externally scheduled sweep: expired holds are
	// released in batches, stale idempotency keys are dropped, then
	// zero-stock products are archived. The archival step is best-effort
	// and never fails the sweep.
	RunCleanup(ctx context.Context) (*CleanupResult, error)
}

type maintenanceCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int32
}

func NewMaintenanceCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.ReservationConfig) MaintenanceCommands {
	return &maintenanceCommandsImpl{
		uow:       uow,
		clock:     clk,
		batchSize: cfg.SweepBatchSize,
	}
}

func (c *maintenanceCommandsImpl) RunCleanup(ctx context.Context) (*CleanupResult, error) {
	cleaned, err := c.cleanupExpiredReservations(ctx)
	if err != nil {
		return nil, err
	}

	keysDeleted, err := c.deleteExpiredIdempotencyKeys(ctx)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		ExpiredReservationsCleanedUp:  cleaned,
		ExpiredIdempotencyKeysDeleted: keysDeleted,
	}

	archived, err := c.archiveZeroStockProducts(ctx)
	if err != nil {
		slog.Warn("zero-stock archival failed, sweep result unaffected", "error", err.Error())
		return result, nil
	}
	result.ProductsArchived = archived
	return result, nil
}

// cleanupExpiredReservations drains expired holds batch by batch. Each batch
// is one transaction; SKIP LOCKED in the row query means a concurrent
// confirm or release simply wins and the sweep moves on.
func (c *maintenanceCommandsImpl) cleanupExpiredReservations(ctx context.Context) (int, error) {
	total := 0
	for {
		var batchCleaned int
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			holds, err := tx.Reservations().FindExpiredForUpdate(ctx, c.clock.Now(), c.batchSize)
			if err != nil {
				return err
			}
			for _, hold := range holds {
				ledger, err := tx.Skus().FindForUpdate(ctx, hold.SkuID())
				if err != nil {
					return err
				}
				ledger.Release(hold.Quantity())
				if err := tx.Skus().Save(ctx, ledger); err != nil {
					return err
				}
				deleted, err := tx.Reservations().Delete(ctx, hold.ID())
				if err != nil {
					return err
				}
				if deleted {
					batchCleaned++
				}
			}
			return nil
		})
		if err != nil {
			return total, err
		}

		total += batchCleaned
		if batchCleaned < int(c.batchSize) {
			return total, nil
		}
	}
}

// deleteExpiredIdempotencyKeys drops keys past their retention window, so a
// checkout that crashed while holding its key stops blocking retries and the
// table does not grow without bound.
func (c *maintenanceCommandsImpl) deleteExpiredIdempotencyKeys(ctx context.Context) (int, error) {
	var deleted int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, c.clock.Now())
		deleted = n
		return err
	})
	return int(deleted), err
}

func (c *maintenanceCommandsImpl) archiveZeroStockProducts(ctx context.Context) (int, error) {
	var archived int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Products().ArchiveZeroStock(ctx)
		archived = n
		return err
	})
	return int(archived), err
}
