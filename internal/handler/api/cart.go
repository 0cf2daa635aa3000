package api

import (
	"errors"
	"net/http"

	reqdto "shop-inventory/internal/handler/dto/request"
	resdto "shop-inventory/internal/handler/dto/response"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	reservationCommands commands.ReservationCommands
}

func NewCartHandler(reservationCommands commands.ReservationCommands) *CartHandler {
	return &CartHandler{
		reservationCommands: reservationCommands,
	}
}

// @Summary Reserve stock for a cart
// @Description Place time-boxed holds on every item or none of them
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.ReserveStockRequest true "Reserve request"
// @Success 201 {object} resdto.ReserveStockResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.ReserveConflictResponse
// @Failure 422 {object} map[string]string
// @Router /cart/reserve [post]
func (h *CartHandler) Reserve(c *gin.Context) {
	var req reqdto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.ReserveStock(c.Request.Context(), req.SessionID, req.ToCommand())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSkuNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "SKU not found",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	if !result.Success {
		c.JSON(http.StatusConflict, resdto.FromReserveConflict(result))
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReserveResult(result))
}

// @Summary Release cart holds
// @Description Release previously reserved stock back to the available pool
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.ReleaseStockRequest true "Release request"
// @Success 200 {object} resdto.ReleaseStockResponse
// @Failure 400 {object} map[string]string
// @Router /cart/reserve [delete]
func (h *CartHandler) Release(c *gin.Context) {
	var req reqdto.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	released, err := h.reservationCommands.ReleaseReservations(c.Request.Context(), req.ReservationIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.ReleaseStockResponse{Released: released})
}
