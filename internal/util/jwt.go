package util

import (
	"errors"
	"fmt"
	"time"

	"social-backend/config"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the lifetime of a session token and of the cookie carrying it
const TokenTTL = 7 * 24 * time.Hour

func GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(TokenTTL).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken verifies the signature and expiry and returns the user id claim
func ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["id"].(string)
		if !ok || userID == "" {
			return "", errors.New("token carries no user id")
		}
		return userID, nil
	}

	return "", errors.New("invalid token")
}
