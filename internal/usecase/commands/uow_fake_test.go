//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"shop-inventory/internal/domain/order"
	"shop-inventory/internal/domain/reservation"
	"shop-inventory/internal/domain/sku"
	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/infra"
	"shop-inventory/internal/infra/db"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database. Rows are plain value
// structs keyed by id; repositories reconstruct domain entities on read and
// flatten them back on write, mirroring what the SQL layer does.
type fakeStore struct {
	skus         map[uuid.UUID]skuRow
	reservations map[uuid.UUID]reservationRow
	orders       map[uuid.UUID]orderRow
	products     map[uuid.UUID]productRow
	idempotency  map[uuid.UUID]idempotencyRow
}

type skuRow struct {
	productID  uuid.UUID
	code       string
	priceCents int64
	stock      int32
	reserved   int32
	isActive   bool
}

type reservationRow struct {
	skuID     uuid.UUID
	quantity  int32
	sessionID string
	orderID   *uuid.UUID
	expiresAt time.Time
	createdAt time.Time
}

type orderRow struct {
	email     string
	sessionID string
	status    order.Status
	items     []order.Item
	createdAt time.Time
	updatedAt time.Time
}

type productRow struct {
	isArchived bool
}

type idempotencyRow struct {
	endpoint      string
	status        shared.IdempotencyStatus
	requestHash   string
	resultOrderID *uuid.UUID
	expiresAt     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		skus:         make(map[uuid.UUID]skuRow),
		reservations: make(map[uuid.UUID]reservationRow),
		orders:       make(map[uuid.UUID]orderRow),
		products:     make(map[uuid.UUID]productRow),
		idempotency:  make(map[uuid.UUID]idempotencyRow),
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.skus {
		c.skus[k] = v
	}
	for k, v := range s.reservations {
		if v.orderID != nil {
			id := *v.orderID
			v.orderID = &id
		}
		c.reservations[k] = v
	}
	for k, v := range s.orders {
		v.items = append([]order.Item(nil), v.items...)
		c.orders[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.idempotency {
		if v.resultOrderID != nil {
			id := *v.resultOrderID
			v.resultOrderID = &id
		}
		c.idempotency[k] = v
	}
	return c
}

func (s *fakeStore) addProduct() uuid.UUID {
	id := uuid.New()
	s.products[id] = productRow{}
	return id
}

func (s *fakeStore) addSku(productID uuid.UUID, code string, priceCents int64, stock, reserved int32, active bool) uuid.UUID {
	id := uuid.New()
	s.skus[id] = skuRow{
		productID:  productID,
		code:       code,
		priceCents: priceCents,
		stock:      stock,
		reserved:   reserved,
		isActive:   active,
	}
	return id
}

func (s *fakeStore) addReservation(skuID uuid.UUID, qty int32, sessionID string, expiresAt time.Time) uuid.UUID {
	id := uuid.New()
	s.reservations[id] = reservationRow{
		skuID:     skuID,
		quantity:  qty,
		sessionID: sessionID,
		expiresAt: expiresAt,
		createdAt: expiresAt.Add(-5 * time.Minute),
	}
	return id
}

// fakeUoW runs the callback against the shared store and restores a snapshot
// when the callback errors, so rollback semantics match the real thing.
type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) *fakeUoW {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := u.store.clone()
	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		*u.store = *snapshot
		return err
	}
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Skus() shared.SkuRepository                 { return &fakeSkuRepo{t.store} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{t.store} }
func (t *fakeTx) Orders() shared.OrderRepository             { return &fakeOrderRepo{t.store} }
func (t *fakeTx) Products() shared.ProductRepository         { return &fakeProductRepo{t.store} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository  { return &fakeIdempotencyRepo{t.store} }
func (t *fakeTx) Users() shared.UserRepository               { return &fakeUserRepo{} }
func (t *fakeTx) DB() db.DBTX                                { return nil }

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows in result set"), infra.KindNotFound)
}

type fakeSkuRepo struct {
	store *fakeStore
}

func (r *fakeSkuRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*sku.SKU, error) {
	row, ok := r.store.skus[id]
	if !ok {
		return nil, notFound("sku not found")
	}
	return sku.Reconstruct(id, row.productID, row.code, row.priceCents, row.stock, row.reserved, row.isActive)
}

func (r *fakeSkuRepo) Save(_ context.Context, s *sku.SKU) error {
	row, ok := r.store.skus[s.ID()]
	if !ok {
		return notFound("sku not found")
	}
	row.stock = s.Stock()
	row.reserved = s.Reserved()
	r.store.skus[s.ID()] = row
	return nil
}

type fakeReservationRepo struct {
	store *fakeStore
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	r.store.reservations[res.ID()] = reservationRow{
		skuID:     res.SkuID(),
		quantity:  res.Quantity().Value(),
		sessionID: res.SessionID(),
		orderID:   res.OrderID(),
		expiresAt: res.ExpiresAt(),
		createdAt: res.CreatedAt(),
	}
	return nil
}

func (r *fakeReservationRepo) reconstruct(id uuid.UUID, row reservationRow) *reservation.Reservation {
	qty, err := sku.NewQuantity(row.quantity)
	if err != nil {
		panic(err)
	}
	var orderID *uuid.UUID
	if row.orderID != nil {
		v := *row.orderID
		orderID = &v
	}
	return reservation.Reconstruct(id, row.skuID, qty, row.sessionID, orderID, row.expiresAt, row.createdAt)
}

func (r *fakeReservationRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.store.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return r.reconstruct(id, row), nil
}

func (r *fakeReservationRepo) FindByOrderForUpdate(_ context.Context, orderID uuid.UUID) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for id, row := range r.store.reservations {
		if row.orderID != nil && *row.orderID == orderID {
			out = append(out, r.reconstruct(id, row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SkuID().String() < out[j].SkuID().String()
	})
	return out, nil
}

func (r *fakeReservationRepo) FindExpiredForUpdate(_ context.Context, now time.Time, limit int32) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for id, row := range r.store.reservations {
		if row.expiresAt.Before(now) {
			out = append(out, r.reconstruct(id, row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt().Before(out[j].ExpiresAt())
	})
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeReservationRepo) AttachOrder(_ context.Context, id, orderID uuid.UUID) error {
	row, ok := r.store.reservations[id]
	if !ok || row.orderID != nil {
		return infra.WrapRepoErr("reservation gone or already attached", nil, infra.KindNotFound)
	}
	v := orderID
	row.orderID = &v
	r.store.reservations[id] = row
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.store.reservations[id]; !ok {
		return false, nil
	}
	delete(r.store.reservations, id)
	return true, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	r.store.orders[o.ID()] = orderRow{
		email:     o.Email().Value(),
		sessionID: o.SessionID(),
		status:    o.Status(),
		items:     append([]order.Item(nil), o.Items()...),
		createdAt: o.CreatedAt(),
		updatedAt: o.UpdatedAt(),
	}
	return nil
}

func (r *fakeOrderRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*order.Order, error) {
	row, ok := r.store.orders[id]
	if !ok {
		return nil, notFound("order not found")
	}
	email, err := user.NewEmail(row.email)
	if err != nil {
		panic(err)
	}
	return order.Reconstruct(id, email, row.sessionID, row.status, append([]order.Item(nil), row.items...), row.createdAt, row.updatedAt), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status) error {
	row, ok := r.store.orders[id]
	if !ok {
		return notFound("order not found")
	}
	row.status = status
	r.store.orders[id] = row
	return nil
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) ArchiveZeroStock(_ context.Context) (int64, error) {
	var archived int64
	for id, row := range r.store.products {
		if row.isArchived {
			continue
		}
		hasSku := false
		sellable := false
		for _, s := range r.store.skus {
			if s.productID != id {
				continue
			}
			hasSku = true
			if s.isActive && s.stock > 0 {
				sellable = true
			}
		}
		if hasSku && !sellable {
			row.isArchived = true
			r.store.products[id] = row
			archived++
		}
	}
	return archived, nil
}

type fakeIdempotencyRepo struct {
	store *fakeStore
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	if _, exists := r.store.idempotency[key]; exists {
		return false, nil
	}
	r.store.idempotency[key] = idempotencyRow{
		endpoint:    endpoint,
		status:      shared.IdempotencyProcessing,
		requestHash: requestHash,
		expiresAt:   expiresAt,
	}
	return true, nil
}

func (r *fakeIdempotencyRepo) Get(_ context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, ok := r.store.idempotency[key]
	if !ok {
		return nil, notFound("idempotency key not found")
	}
	rec := &shared.IdempotencyRecord{
		Key:         key,
		Endpoint:    row.endpoint,
		Status:      row.status,
		RequestHash: row.requestHash,
		ExpiresAt:   row.expiresAt,
	}
	if row.resultOrderID != nil {
		v := *row.resultOrderID
		rec.ResultOrderID = &v
	}
	return rec, nil
}

func (r *fakeIdempotencyRepo) MarkCompleted(_ context.Context, key uuid.UUID, resultOrderID uuid.UUID) error {
	row, ok := r.store.idempotency[key]
	if !ok {
		return notFound("idempotency key not found")
	}
	row.status = shared.IdempotencyCompleted
	row.resultOrderID = &resultOrderID
	r.store.idempotency[key] = row
	return nil
}

func (r *fakeIdempotencyRepo) Reclaim(_ context.Context, key uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	row, ok := r.store.idempotency[key]
	if !ok || row.status != shared.IdempotencyProcessing || !row.expiresAt.Before(now) {
		return false, nil
	}
	row.requestHash = requestHash
	row.resultOrderID = nil
	row.expiresAt = expiresAt
	r.store.idempotency[key] = row
	return true, nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var deleted int64
	for key, row := range r.store.idempotency {
		if row.expiresAt.Before(now) {
			delete(r.store.idempotency, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) UpdateLastLogin(context.Context, uuid.UUID) error { return nil }

// fakeOrderQueries serves the read-after-write lookup in CreateOrder from
// the same store the write side mutates.
type fakeOrderQueries struct {
	store *fakeStore
}

func (q *fakeOrderQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row, ok := q.store.orders[id]
	if !ok {
		return nil, notFound("order not found")
	}
	view := &queries.OrderView{
		ID:        id,
		Email:     row.email,
		SessionID: row.sessionID,
		Status:    string(row.status),
		CreatedAt: row.createdAt,
		UpdatedAt: row.updatedAt,
	}
	for _, item := range row.items {
		code := q.store.skus[item.SkuID()].code
		view.Items = append(view.Items, queries.OrderItemView{
			SkuID:      item.SkuID(),
			SkuCode:    code,
			Quantity:   item.Quantity().Value(),
			PriceCents: item.PriceCents(),
		})
		view.TotalCents += item.PriceCents() * int64(item.Quantity().Value())
	}
	return view, nil
}
