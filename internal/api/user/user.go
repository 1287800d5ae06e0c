package user

import (
	"net/http"
	"strings"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/model"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves discovery and the follow graph
type UserHandler struct {
	socialService service.SocialServiceInterface
}

func NewUserHandler(socialService service.SocialServiceInterface) *UserHandler {
	return &UserHandler{socialService}
}

// Search matches users by name or email, excluding the caller
func (h *UserHandler) Search(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []*model.SearchResult{})
		return
	}

	users, err := h.socialService.Search(c.Request.Context(), query, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Suggestions(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	users, err := h.socialService.Suggestions(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ToggleFollow follows the user in the path, or unfollows if already following
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	targetID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	result, err := h.socialService.ToggleFollow(c.Request.Context(), userID, targetID)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("follow toggle failed",
				zap.String("user_id", userID.Hex()),
				zap.String("target_id", targetID.Hex()),
				zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Followers(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	users, err := h.socialService.Followers(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Following(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	users, err := h.socialService.Following(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
