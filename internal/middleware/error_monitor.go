package middleware

import (
	"net/http"

	"social-backend/internal/errors"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware feeds every error attached to the request into analytics and logs it
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		for _, e := range c.Errors {
			analytics.Record(e.Err, path)

			fields := []zap.Field{
				zap.Int("error_code", int(errors.CodeOf(e.Err))),
				zap.String("path", path),
				zap.String("method", c.Request.Method),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(e.Err),
			}
			if c.Writer.Status() >= http.StatusInternalServerError {
				util.Logger.Error("request failed", fields...)
			} else {
				util.Logger.Warn("request rejected", fields...)
			}
		}
	}
}
