package response

import (
	"time"

	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SkuResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	PriceCents     int64     `json:"priceCents"`
	AvailableStock int32     `json:"availableStock"`
	IsActive       bool      `json:"isActive"`
}

type ProductListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	MinPriceCents  int64     `json:"minPriceCents"`
	AvailableStock int32     `json:"availableStock"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ProductListResponse struct {
	Items      []ProductListItemResponse `json:"items"`
	NextCursor *string                   `json:"nextCursor,omitempty"`
}

type ProductDetailResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Skus        []SkuResponse `json:"skus"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func FromProductListPage(page *queries.ProductListPage) *ProductListResponse {
	resp := &ProductListResponse{
		Items:      make([]ProductListItemResponse, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	_ = copier.Copy(&resp.Items, page.Items)
	return resp
}

func FromProductDetail(view *queries.ProductDetailView) *ProductDetailResponse {
	resp := &ProductDetailResponse{}
	_ = copier.Copy(resp, view)
	return resp
}

func FromSkuView(view *queries.SkuView) *SkuResponse {
	resp := &SkuResponse{}
	_ = copier.Copy(resp, view)
	return resp
}
