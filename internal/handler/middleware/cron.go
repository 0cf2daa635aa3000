package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"shop-inventory/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

// RequireCronSecret guards scheduler-only endpoints. The sweep endpoint is
// called by an external cron with a bearer secret, not a user token.
func RequireCronSecret(cfg config.CronConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Cron secret required",
			})
			c.Abort()
			return
		}

		provided := strings.TrimSpace(authHeader[len("Bearer "):])
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Secret)) != 1 {
			slog.Warn("Cron endpoint called with invalid secret", "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid cron secret",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
