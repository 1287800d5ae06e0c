package system

import (
	"net/http"

	"social-backend/config"
	"social-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves health and diagnostics endpoints
type SystemHandler struct {
	analytics *errors.ErrorAnalytics
}

func NewSystemHandler(analytics *errors.ErrorAnalytics) *SystemHandler {
	return &SystemHandler{analytics}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}

// DebugEnv reports which settings are present without revealing their values
func (h *SystemHandler) DebugEnv(c *gin.Context) {
	cfg := config.AppConfig
	c.JSON(http.StatusOK, gin.H{
		"app_env":            cfg.Environment,
		"db_driver":          cfg.DBDriver,
		"push_driver":        cfg.PushDriver,
		"storage_driver":     cfg.StorageDriver,
		"mongo_uri_set":      cfg.MongoURI != "",
		"jwt_secret_set":     cfg.JWTSecret != "",
		"pusher_app_id_set":  cfg.PusherAppID != "",
		"pusher_key_set":     cfg.PusherKey != "",
		"pusher_secret_set":  cfg.PusherSecret != "",
		"pusher_cluster_set": cfg.PusherCluster != "",
		"smtp_set":           cfg.SMTPHost != "",
	})
}

// ErrorStats exposes the request error counters
func (h *SystemHandler) ErrorStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.GetStats())
}
