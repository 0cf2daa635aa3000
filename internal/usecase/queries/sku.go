package queries

import (
	"context"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/errs"

	"github.com/google/uuid"
)

type SkuReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SkuView, error)
}

type SkuQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SkuView, error)
}

type skuQueriesImpl struct {
	store SkuReadStore
}

func NewSkuQueries(store SkuReadStore) SkuQueries {
	return &skuQueriesImpl{store: store}
}

func (q *skuQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SkuView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSkuNotFound)
		}
		return nil, err
	}
	return view, nil
}
