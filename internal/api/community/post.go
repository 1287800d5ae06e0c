package community

import (
	"net/http"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler serves the post feed
type PostHandler struct {
	postService service.PostServiceInterface
}

func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

type postRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	post, err := h.postService.Create(c.Request.Context(), userID, req.Text, req.Image)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("failed to create post", zap.String("user_id", userID.Hex()), zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ListPosts returns the feed; ?filter=following narrows it to followed users
func (h *PostHandler) ListPosts(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	posts, err := h.postService.List(c.Request.Context(), userID, c.Query("filter"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	post, err := h.postService.Get(c.Request.Context(), postID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListUserPosts is public
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	ownerID, err := service.ParseID(c.Param("id"), "User")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	posts, err := h.postService.ListByUser(c.Request.Context(), ownerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// UpdatePost overwrites only the fields sent non-empty
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	post, err := h.postService.Update(c.Request.Context(), postID, userID, req.Text, req.Image)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.Delete(c.Request.Context(), postID, userID); err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("failed to delete post", zap.String("post_id", postID.Hex()), zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post Deleted Successfully"})
}

// ToggleLike likes the post, or removes the like if already present
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	result, err := h.postService.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
