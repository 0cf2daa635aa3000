package commands

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
)

type StockCommands interface {
	// SetStock is the back-office restock/correction path. It re-reads the
	// ledger under lock and refuses totals below what open holds require,
	// keeping reserved <= stock unconditionally.
	SetStock(ctx context.Context, skuID uuid.UUID, newStock int32) (*queries.SkuView, error)
}

type stockCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewStockCommands(uow shared.UnitOfWork) StockCommands {
	return &stockCommandsImpl{uow: uow}
}

func (c *stockCommandsImpl) SetStock(ctx context.Context, skuID uuid.UUID, newStock int32) (*queries.SkuView, error) {
	var view *queries.SkuView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ledger, err := tx.Skus().FindForUpdate(ctx, skuID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSkuNotFound)
			}
			return err
		}

		if err := ledger.SetStock(newStock); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Skus().Save(ctx, ledger); err != nil {
			return err
		}

		view = &queries.SkuView{
			ID:             ledger.ID(),
			ProductID:      ledger.ProductID(),
			Code:           ledger.Code(),
			PriceCents:     ledger.PriceCents(),
			Stock:          ledger.Stock(),
			ReservedStock:  ledger.Reserved(),
			AvailableStock: ledger.Available(),
			IsActive:       ledger.IsActive(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
