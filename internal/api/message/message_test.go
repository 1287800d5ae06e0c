package message

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Conversations(ctx context.Context, requesterID primitive.ObjectID) ([]*model.Conversation, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]*model.Conversation), args.Error(1)
}

func (m *MockMessageService) UnreadCount(ctx context.Context, requesterID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, counterpartID, requesterID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, counterpartID, requesterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) History(ctx context.Context, requesterID, counterpartID primitive.ObjectID) ([]*model.Message, error) {
	args := m.Called(ctx, requesterID, counterpartID)
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessageService) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, text string) (*model.Message, error) {
	args := m.Called(ctx, senderID, recipientID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

var _ service.MessageServiceInterface = (*MockMessageService)(nil)

func setupRouter(me primitive.ObjectID, svc *MockMessageService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", me.Hex())
		c.Next()
	})
	h := NewMessageHandler(svc)
	r.GET("/messages/conversations", h.Conversations)
	r.GET("/messages/unread-count", h.UnreadCount)
	r.GET("/messages/:id", h.History)
	r.POST("/messages/send/:id", h.Send)
	r.PUT("/messages/read/:id", h.MarkRead)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSend(t *testing.T) {
	me := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	ghost := primitive.NewObjectID()
	svc := new(MockMessageService)
	r := setupRouter(me, svc)

	svc.On("Send", mock.Anything, me, bob, "hi").
		Return(&model.Message{ID: primitive.NewObjectID(), SenderID: me, RecipientID: bob, Text: "hi"}, nil)
	svc.On("Send", mock.Anything, me, ghost, "hi").
		Return(nil, errors.New(errors.ErrUserNotFound, "User not found"))

	w := do(r, http.MethodPost, "/messages/send/"+bob.Hex(), `{"text":"hi"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"read":false`)

	w = do(r, http.MethodPost, "/messages/send/"+ghost.Hex(), `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/messages/send/"+bob.Hex(), `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/messages/send/bob", `{"text":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "Send", 2)
}

func TestHistoryAndConversations(t *testing.T) {
	me := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	svc := new(MockMessageService)
	r := setupRouter(me, svc)

	svc.On("History", mock.Anything, me, bob).Return([]*model.Message{{Text: "first"}, {Text: "second"}}, nil)
	svc.On("Conversations", mock.Anything, me).
		Return([]*model.Conversation{{UserSummary: model.UserSummary{ID: bob, Name: "Bob"}, UnreadCount: 2}}, nil)

	w := do(r, http.MethodGet, "/messages/"+bob.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, `first.*second`, w.Body.String())

	w = do(r, http.MethodGet, "/messages/conversations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unreadCount":2`)
	assert.Contains(t, w.Body.String(), `"name":"Bob"`)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	me := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	svc := new(MockMessageService)
	r := setupRouter(me, svc)

	svc.On("UnreadCount", mock.Anything, me).Return(int64(4), nil)
	svc.On("MarkRead", mock.Anything, bob, me).Return(int64(4), nil)

	w := do(r, http.MethodGet, "/messages/unread-count", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())

	w = do(r, http.MethodPut, "/messages/read/"+bob.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Messages marked as read"}`, w.Body.String())
	svc.AssertExpectations(t)
}
