package request

// Stock is a pointer so that an explicit zero survives binding validation.
type SetStockRequest struct {
	Stock *int32 `json:"stock" binding:"required"`
}
