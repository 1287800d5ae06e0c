package message

import (
	"net/http"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler serves direct messages between two users
type MessageHandler struct {
	messageService service.MessageServiceInterface
}

func NewMessageHandler(messageService service.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{messageService}
}

// Conversations lists everyone the caller has exchanged messages with
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	conversations, err := h.messageService.Conversations(c.Request.Context(), userID)
	if err != nil {
		util.Logger.Error("failed to list conversations", zap.String("user_id", userID.Hex()), zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	count, err := h.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// History returns the messages exchanged with the user in the path, oldest first
func (h *MessageHandler) History(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	counterpartID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	messages, err := h.messageService.History(c.Request.Context(), userID, counterpartID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	recipientID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var req struct {
		Text string `json:"text" binding:"required,notblank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Message text is required", err))
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), userID, recipientID, req.Text)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("failed to send message", zap.String("user_id", userID.Hex()), zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// MarkRead marks every message from the user in the path to the caller as read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	counterpartID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	updated, err := h.messageService.MarkRead(c.Request.Context(), counterpartID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Debug("messages marked as read",
		zap.String("user_id", userID.Hex()),
		zap.String("sender_id", counterpartID.Hex()),
		zap.Int64("updated", updated))
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}
