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

// CommentHandler serves comments and replies
type CommentHandler struct {
	commentService service.CommentServiceInterface
}

func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService}
}

type commentRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

// AddComment comments on the post in the path
func (h *CommentHandler) AddComment(c *gin.Context) {
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

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment text is required", err))
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), postID, userID, req.Text)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("failed to add comment", zap.String("post_id", postID.Hex()), zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CountComments(c *gin.Context) {
	postID, err := service.ParseID(c.Param("id"), "Post")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	count, err := h.commentService.Count(c.Request.Context(), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Reply answers the comment in the path
func (h *CommentHandler) Reply(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	parentID, err := service.ParseID(c.Param("id"), "Comment")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Reply text is required", err))
		return
	}

	reply, err := h.commentService.Reply(c.Request.Context(), parentID, userID, req.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	commentID, err := service.ParseID(c.Param("id"), "Comment")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment text is required", err))
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), commentID, userID, req.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes the comment together with its replies
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	commentID, err := service.ParseID(c.Param("id"), "Comment")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		if errors.CodeOf(err) == errors.ErrDatabase {
			util.Logger.Error("failed to delete comment", zap.String("comment_id", commentID.Hex()), zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
