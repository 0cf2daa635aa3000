package queries

import (
	"context"
	"time"

	"shop-inventory/internal/infra"
	"shop-inventory/internal/pkg/errs"

	"github.com/google/uuid"
)

type ProductReadStore interface {
	ListStorefrontFirstPage(ctx context.Context, limit int32) ([]*ProductListItem, error)
	ListStorefrontKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ProductListItem, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*ProductDetailView, error)
}

type ProductQueries interface {
	ListStorefront(ctx context.Context, after string, limit int) (*ProductListPage, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*ProductDetailView, error)
}

type productQueriesImpl struct {
	store ProductReadStore
}

func NewProductQueries(store ProductReadStore) ProductQueries {
	return &productQueriesImpl{store: store}
}

func (q *productQueriesImpl) ListStorefront(ctx context.Context, after string, limit int) (*ProductListPage, error) {
	limit = ValidateLimit(limit)

	var (
		items []*ProductListItem
		err   error
	)
	if after == "" {
		items, err = q.store.ListStorefrontFirstPage(ctx, int32(limit)+1)
	} else {
		var (
			lastCreatedAt time.Time
			lastID        uuid.UUID
		)
		lastCreatedAt, lastID, err = DecodeAfterCursor(after)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		items, err = q.store.ListStorefrontKeyset(ctx, lastCreatedAt, lastID, int32(limit)+1)
	}
	if err != nil {
		return nil, err
	}

	page := &ProductListPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[len(page.Items)-1]
		cursor := EncodeAfterCursor(last.CreatedAt, last.ID)
		page.NextCursor = &cursor
	}
	return page, nil
}

func (q *productQueriesImpl) GetDetail(ctx context.Context, id uuid.UUID) (*ProductDetailView, error) {
	view, err := q.store.FindDetailByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrProductNotFound)
		}
		return nil, err
	}
	return view, nil
}
