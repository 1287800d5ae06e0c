package middleware

import (
	"context"
	"strings"
	"time"

	"social-backend/internal/errors"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TokenCookie is the name of the session cookie
const TokenCookie = "token"

const requestTimeout = 5 * time.Second

// TokenFromRequest returns the bearer token of the Authorization header, falling back to the session cookie
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// IdentityFromRequest resolves the caller without rejecting the request
func IdentityFromRequest(c *gin.Context) (string, bool) {
	token := TokenFromRequest(c)
	if token == "" {
		return "", false
	}
	userID, err := util.ValidateToken(token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// AuthMiddleware rejects requests without a valid session and stores the caller's id as "user_id"
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		token := TokenFromRequest(c)
		if token == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Not authorized, no token"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			util.Logger.Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Not authorized, token failed", err))
			c.Abort()
			return
		}

		c.Set("user_id", userID)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "Request timed out"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// CurrentUserID returns the caller resolved by AuthMiddleware
func CurrentUserID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		return primitive.NilObjectID, errors.New(errors.ErrInvalidToken, "Not authorized, token failed")
	}
	return id, nil
}
