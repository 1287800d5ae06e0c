package user

import (
	"net/http"

	"social-backend/config"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/model"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const tokenMaxAge = 7 * 24 * 60 * 60

// AuthHandler handles the session lifecycle
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

type accountResponse struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

func newAccountResponse(u *model.User) accountResponse {
	return accountResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register creates an account and starts a session
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Name     string `json:"name" binding:"required,notblank"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,max=72"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("register rejected, invalid request data", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, token, err := h.userService.Register(c.Request.Context(), registerData.Name, registerData.Email, registerData.Password)
	if err != nil {
		if !errors.Is(err, errors.ErrUserExists) {
			util.Logger.Error("register failed", zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}

	setTokenCookie(c, token, tokenMaxAge)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    newAccountResponse(user),
	})
}

// Login verifies the credentials and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,max=72"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	setTokenCookie(c, token, tokenMaxAge)
	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"token":   token,
		"user":    newAccountResponse(user),
	})
}

// Logout clears the session cookie. Tokens are stateless, nothing is revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

// CurrentProfile returns the caller's profile, or null when the request carries no usable session
func (h *AuthHandler) CurrentProfile(c *gin.Context) {
	hex, ok := middleware.IdentityFromRequest(c)
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, errors.ErrUserNotFound) {
			util.Logger.Error("failed to load current profile", zap.String("user_id", hex), zap.Error(err))
		}
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	secure := config.AppConfig.IsProduction()
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", secure, true)
}
