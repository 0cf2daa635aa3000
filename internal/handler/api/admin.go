package api

import (
	"errors"
	"net/http"

	reqdto "shop-inventory/internal/handler/dto/request"
	resdto "shop-inventory/internal/handler/dto/response"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	stockCommands commands.StockCommands
}

func NewAdminHandler(stockCommands commands.StockCommands) *AdminHandler {
	return &AdminHandler{
		stockCommands: stockCommands,
	}
}

// @Summary Set SKU stock level
// @Description Transactional restock or correction; rejects levels below the currently reserved amount
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "SKU ID"
// @Param request body reqdto.SetStockRequest true "New stock level"
// @Success 200 {object} resdto.SkuResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/skus/{id}/stock [put]
func (h *AdminHandler) SetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid SKU ID format",
		})
		return
	}

	var req reqdto.SetStockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.stockCommands.SetStock(c.Request.Context(), id, *req.Stock)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSkuNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "SKU not found",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Stock level conflicts with current reservations",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSkuView(view))
}
