package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// SkuView carries the ledger counters as stored. AvailableStock does not
// discount expired-but-unswept holds; those stay counted until the sweep.
type SkuView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Code           string    `json:"code"`
	PriceCents     int64     `json:"price_cents"`
	Stock          int32     `json:"stock"`
	ReservedStock  int32     `json:"reserved_stock"`
	AvailableStock int32     `json:"available_stock"`
	IsActive       bool      `json:"is_active"`
}

type ProductListItem struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	MinPriceCents  int64     `json:"min_price_cents"`
	AvailableStock int32     `json:"available_stock"`
	CreatedAt      time.Time `json:"created_at"`
}

type ProductListPage struct {
	Items      []*ProductListItem `json:"items"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

type ProductDetailView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsArchived  bool      `json:"is_archived"`
	Skus        []SkuView `json:"skus"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderItemView struct {
	SkuID      uuid.UUID `json:"sku_id"`
	SkuCode    string    `json:"sku_code"`
	Quantity   int32     `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
}

type OrderView struct {
	ID         uuid.UUID       `json:"id"`
	Email      string          `json:"email"`
	SessionID  string          `json:"session_id"`
	Status     string          `json:"status"`
	TotalCents int64           `json:"total_cents"`
	Items      []OrderItemView `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UserCredentialRecord is the auth projection including the password hash.
// It never leaves the usecase layer.
type UserCredentialRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}
