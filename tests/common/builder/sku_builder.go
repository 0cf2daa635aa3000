//go:build unit || e2e

package builder

import (
	domsku "shop-inventory/internal/domain/sku"

	"github.com/google/uuid"
)

type SkuBuilder struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	Code       string
	PriceCents int64
	Stock      int32
	Reserved   int32
	IsActive   bool
}

func NewSkuBuilder() *SkuBuilder {
	return &SkuBuilder{
		ID:         uuid.New(),
		ProductID:  uuid.New(),
		Code:       "TSHIRT-BLK-M",
		PriceCents: 2500,
		Stock:      5,
		Reserved:   0,
		IsActive:   true,
	}
}

func (b *SkuBuilder) WithStock(stock int32) *SkuBuilder {
	b.Stock = stock
	return b
}

func (b *SkuBuilder) WithReserved(reserved int32) *SkuBuilder {
	b.Reserved = reserved
	return b
}

func (b *SkuBuilder) Inactive() *SkuBuilder {
	b.IsActive = false
	return b
}

func (b *SkuBuilder) BuildDomain() (*domsku.SKU, error) {
	return domsku.Reconstruct(b.ID, b.ProductID, b.Code, b.PriceCents, b.Stock, b.Reserved, b.IsActive)
}
