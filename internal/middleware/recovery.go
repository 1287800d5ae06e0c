package middleware

import (
	"social-backend/internal/errors"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into a 500 response and logs it with its stack
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				traced := errors.FromPanic(r, errors.ErrorContext{
					RequestID: c.GetString(RequestIDKey),
					UserID:    c.GetString("user_id"),
					Path:      c.Request.URL.Path,
					Method:    c.Request.Method,
				})

				util.Logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", traced.Context.Path),
					zap.String("request_id", traced.Context.RequestID),
					zap.String("user_id", traced.Context.UserID),
					zap.String("stack", traced.Stack))

				errors.HandleError(c, traced)
				c.Abort()
			}
		}()
		c.Next()
	}
}
