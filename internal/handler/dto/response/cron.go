package response

import "shop-inventory/internal/usecase/commands"

type CleanupResponse struct {
	ExpiredReservationsCleanedUp  int `json:"expiredReservationsCleanedUp"`
	ExpiredIdempotencyKeysDeleted int `json:"expiredIdempotencyKeysDeleted"`
	ProductsArchived              int `json:"productsArchived"`
}

func FromCleanupResult(result *commands.CleanupResult) *CleanupResponse {
	return &CleanupResponse{
		ExpiredReservationsCleanedUp:  result.ExpiredReservationsCleanedUp,
		ExpiredIdempotencyKeysDeleted: result.ExpiredIdempotencyKeysDeleted,
		ProductsArchived:              result.ProductsArchived,
	}
}
