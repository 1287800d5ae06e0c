package system

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-backend/config"
	"social-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = config.Config{
		Environment:  "development",
		DBDriver:     "memory",
		JWTSecret:    "super-secret",
		PusherKey:    "key",
		PushDriver:   "pusher",
		MongoURI:     "",
		SMTPPassword: "hunter2",
	}

	analytics := errors.NewErrorAnalytics()
	analytics.Record(stderrors.New("boom"), "/posts")
	h := NewSystemHandler(analytics)

	r := gin.New()
	r.GET("/", h.Health)
	r.GET("/debug-env", h.DebugEnv)
	r.GET("/debug/errors", h.ErrorStats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Server is running", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug-env", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, true, env["jwt_secret_set"])
	assert.Equal(t, false, env["mongo_uri_set"])
	assert.Equal(t, true, env["pusher_key_set"])
	assert.NotContains(t, w.Body.String(), "super-secret")
	assert.NotContains(t, w.Body.String(), "hunter2")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/errors", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_errors":1`)
}
