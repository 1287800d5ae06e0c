package util

import (
	"path/filepath"
	"testing"
	"time"

	"social-backend/config"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("65f0c0ffee0000000000abcd")
	require.NoError(t, err)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", userID)
}

func TestValidateTokenRejects(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateToken("")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken("abc")
		require.NoError(t, err)
		config.AppConfig.JWTSecret = "other"
		defer func() { config.AppConfig.JWTSecret = "test-secret" }()
		_, err = ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":  "abc",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("Photo.JPG")
	b := GenerateUniqueFilename("Photo.JPG")
	assert.Equal(t, ".jpg", filepath.Ext(a))
	assert.NotEqual(t, a, b)
}

func TestValidateNotBlank(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("notblank", ValidateNotBlank))

	type body struct {
		Text string `validate:"notblank"`
	}
	assert.NoError(t, v.Struct(body{Text: "hi"}))
	assert.Error(t, v.Struct(body{Text: "   "}))
	assert.Error(t, v.Struct(body{}))
}
