package upload

import (
	"fmt"
	"net/http"
	"strings"

	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/storage"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

// UploadHandler stores media for posts and avatars
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(storage storage.Storage) *UploadHandler {
	return &UploadHandler{storage}
}

// UploadImage stores the multipart "image" field and returns its public URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Image file is required", err))
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		errors.HandleError(c, errors.New(errors.ErrValidation, "Only image uploads are allowed"))
		return
	}
	if file.Size > maxImageSize {
		errors.HandleError(c, errors.New(errors.ErrValidation, "Image is too large"))
		return
	}

	path := fmt.Sprintf("images/%s/%s", userID.Hex(), util.GenerateUniqueFilename(file.Filename))
	url, err := h.storage.UploadFile(c.Request.Context(), file, path)
	if err != nil {
		util.Logger.Error("image upload failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "Image upload failed", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
