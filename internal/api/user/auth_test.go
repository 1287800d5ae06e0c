package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"social-backend/config"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/model"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserService is a testify mock of service.UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, callerID, targetID primitive.ObjectID, avatar string) (*model.User, error) {
	args := m.Called(ctx, callerID, targetID, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

var _ service.UserServiceInterface = (*MockUserService)(nil)

func setupTest() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.Environment = "development"
	util.RegisterValidators()
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func tokenCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	setupTest()

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	created := &model.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	mockService.On("Register", mock.Anything, "Alice", "alice@example.com", "secret").Return(created, "tok", nil).Once()

	w := postJSON(router, "/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Equal(t, "tok", body.Token)
	assert.Equal(t, created.ID.Hex(), body.User.ID)
	assert.NotContains(t, w.Body.String(), "password")

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, tokenMaxAge, cookie.MaxAge)

	mockService.On("Register", mock.Anything, "Alice", "alice@example.com", "secret").
		Return(nil, "", errors.New(errors.ErrUserExists, "User already exists")).Once()

	w = postJSON(router, "/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
	mockService.AssertExpectations(t)
}

func TestRegister_InvalidBody(t *testing.T) {
	setupTest()

	mockService := new(MockUserService)
	router := gin.New()
	router.POST("/register", NewAuthHandler(mockService).Register)

	for _, body := range []string{
		`{"name":"   ","email":"alice@example.com","password":"secret"}`,
		`{"name":"Alice","email":"not-an-email","password":"secret"}`,
		`{"name":"Alice","email":"alice@example.com"}`,
		`{"name":"Alice","email":"alice@example.com","password":"` + strings.Repeat("p", 80) + `"}`,
		`not json`,
	} {
		w := postJSON(router, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_ProductionCookie(t *testing.T) {
	setupTest()
	config.AppConfig.Environment = "production"
	defer func() { config.AppConfig.Environment = "development" }()

	mockService := new(MockUserService)
	router := gin.New()
	router.POST("/register", NewAuthHandler(mockService).Register)

	created := &model.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	mockService.On("Register", mock.Anything, "Alice", "alice@example.com", "secret").Return(created, "tok", nil)

	w := postJSON(router, "/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestLogin(t *testing.T) {
	setupTest()

	mockService := new(MockUserService)
	router := gin.New()
	router.POST("/login", NewAuthHandler(mockService).Login)

	user := &model.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	mockService.On("Login", mock.Anything, "alice@example.com", "secret").Return(user, "tok", nil)
	mockService.On("Login", mock.Anything, "alice@example.com", "wrong").
		Return(nil, "", errors.New(errors.ErrInvalidCredentials, "Invalid Password"))
	mockService.On("Login", mock.Anything, "bob@example.com", "secret").
		Return(nil, "", errors.New(errors.ErrUserNotFound, "User not found"))

	w := postJSON(router, "/login", `{"email":"alice@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User logged in successfully")
	require.NotNil(t, tokenCookie(w))

	w = postJSON(router, "/login", `{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, tokenCookie(w))

	w = postJSON(router, "/login", `{"email":"bob@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(router, "/login", `{"email":"alice@example.com","password":"`+strings.Repeat("p", 73)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNumberOfCalls(t, "Login", 3)
}

func TestLogout(t *testing.T) {
	setupTest()

	router := gin.New()
	router.POST("/logout", NewAuthHandler(new(MockUserService)).Logout)

	w := postJSON(router, "/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User logged out successfully")

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestCurrentProfile(t *testing.T) {
	setupTest()

	mockService := new(MockUserService)
	router := gin.New()
	router.GET("/me", NewAuthHandler(mockService).CurrentProfile)

	id := primitive.NewObjectID()
	ghost := primitive.NewObjectID()
	mockService.On("GetProfile", mock.Anything, id).
		Return(&model.Profile{ID: id, Name: "Alice", Followers: []*model.UserSummary{}, Following: []*model.UserSummary{}}, nil)
	mockService.On("GetProfile", mock.Anything, ghost).
		Return(nil, errors.New(errors.ErrUserNotFound, "User not found"))

	get := func(setup func(*http.Request)) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		setup(req)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	token, err := util.GenerateToken(id.Hex())
	require.NoError(t, err)
	w := get(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)

	ghostToken, err := util.GenerateToken(ghost.Hex())
	require.NoError(t, err)
	notHex, err := util.GenerateToken("not-an-object-id")
	require.NoError(t, err)

	for name, setup := range map[string]func(*http.Request){
		"no token":      func(r *http.Request) {},
		"bad token":     func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
		"unknown user":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghostToken) },
		"non object id": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+notHex) },
	} {
		w := get(setup)
		assert.Equal(t, http.StatusOK, w.Code, name)
		assert.Equal(t, "null", strings.TrimSpace(w.Body.String()), name)
	}
}
