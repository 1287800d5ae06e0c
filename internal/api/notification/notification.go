package notification

import (
	"net/http"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
