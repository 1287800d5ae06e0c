package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Code   ErrorCode `json:"code"`
	Error  string    `json:"error"`
	Detail string    `json:"detail,omitempty"`
}

var errorStatusMap = map[ErrorCode]int{
	// system (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrPush:     http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,
	ErrStorage:  http.StatusInternalServerError,

	// auth (2000-2999)
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrTokenExpired:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusBadRequest,

	// request (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrInvalidID:        http.StatusBadRequest,

	// business (4000-4999)
	ErrUserNotFound:    http.StatusNotFound,
	ErrUserExists:      http.StatusConflict,
	ErrSelfFollow:      http.StatusBadRequest,
	ErrPostNotFound:    http.StatusNotFound,
	ErrCommentNotFound: http.StatusNotFound,
	ErrNestedReply:     http.StatusBadRequest,
}

// StatusOf maps an error code to its HTTP status.
func StatusOf(code ErrorCode) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError writes the error response and records err on the gin context
// so ErrorMonitorMiddleware can see it.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		status := StatusOf(appErr.Code)
		resp := ErrorResponse{
			Code:  appErr.Code,
			Error: appErr.Message,
		}
		// internal detail only leaks to clients in debug mode
		if appErr.Err != nil && (status < http.StatusInternalServerError || gin.IsDebugging()) {
			resp.Detail = appErr.Err.Error()
		}
		c.JSON(status, resp)
		return
	}

	resp := ErrorResponse{
		Code:  ErrInternal,
		Error: "Internal Server Error",
	}
	if gin.IsDebugging() {
		resp.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
