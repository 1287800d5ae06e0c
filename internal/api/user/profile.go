package user

import (
	"net/http"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler serves user profiles
type ProfileHandler struct {
	userService service.UserServiceInterface
}

func NewProfileHandler(userService service.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{userService}
}

// GetUser returns the public profile of the user in the path
func (h *ProfileHandler) GetUser(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateAvatar overwrites the avatar reference of the user in the path
func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	callerID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	targetID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// empty string clears the avatar; only a missing field is rejected
	var updateData struct {
		Avatar *string `json:"avatar" binding:"required"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), callerID, targetID, *updateData.Avatar)
	if err != nil {
		util.Logger.Error("failed to update avatar", zap.String("user_id", targetID.Hex()), zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
