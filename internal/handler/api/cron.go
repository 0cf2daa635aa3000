package api

import (
	"net/http"

	resdto "shop-inventory/internal/handler/dto/response"
	"shop-inventory/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	maintenanceCommands commands.MaintenanceCommands
}

func NewCronHandler(maintenanceCommands commands.MaintenanceCommands) *CronHandler {
	return &CronHandler{
		maintenanceCommands: maintenanceCommands,
	}
}

// @Summary Cleanup expired reservations
// @Description Release expired holds in batches, then archive products with no sellable stock
// @Tags cron
// @Produce json
// @Security CronSecret
// @Success 200 {object} resdto.CleanupResponse
// @Failure 401 {object} map[string]string
// @Router /cron/cleanup-reservations [post]
func (h *CronHandler) CleanupReservations(c *gin.Context) {
	result, err := h.maintenanceCommands.RunCleanup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCleanupResult(result))
}
