package middleware

import (
	"social-backend/internal/errors"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DebugOnly hides diagnostic routes unless the server runs in debug mode
func DebugOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			util.Logger.Warn("debug route requested outside debug mode",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			errors.HandleError(c, errors.New(errors.ErrResourceNotFound, "Not found"))
			c.Abort()
			return
		}
		c.Next()
	}
}
