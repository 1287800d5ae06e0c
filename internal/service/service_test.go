package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"social-backend/config"
	"social-backend/internal/model"
	"social-backend/internal/push/pushtest"
	"social-backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users         *memory.UserMemoryRepository
	posts         *memory.PostMemoryRepository
	comments      *memory.CommentMemoryRepository
	messages      *memory.MessageMemoryRepository
	notifications *memory.NotificationMemoryRepository

	recorder   *pushtest.Recorder
	dispatcher *NotificationService

	userService    *UserService
	socialService  *SocialService
	postService    *PostService
	commentService *CommentService
	messageService *MessageService
}

func testDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		QueueSize:     64,
		Workers:       2,
		SweepInterval: 50 * time.Millisecond,
		SweepBatch:    100,
		MaxAttempts:   5,
		Retries:       2,
		Backoff:       time.Millisecond,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"

	env := &testEnv{
		users:         memory.NewUserMemoryRepository(),
		posts:         memory.NewPostMemoryRepository(),
		comments:      memory.NewCommentMemoryRepository(),
		messages:      memory.NewMessageMemoryRepository(),
		notifications: memory.NewNotificationMemoryRepository(),
		recorder:      pushtest.NewRecorder(),
	}

	env.dispatcher = NewNotificationService(env.notifications, env.users, env.recorder, testDispatcherOptions())
	env.dispatcher.Start(context.Background())
	t.Cleanup(env.dispatcher.Stop)

	env.userService = NewUserService(env.users, nil)
	env.socialService = NewSocialService(env.users, env.dispatcher)
	env.postService = NewPostService(env.posts, env.users, env.dispatcher)
	env.commentService = NewCommentService(env.comments, env.posts, env.users, env.dispatcher)
	env.messageService = NewMessageService(env.messages, env.users, env.dispatcher)
	return env
}

// createUser stores a user directly, skipping password hashing
func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: strings.ToLower(name) + "@example.com"}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, owner *model.User, text string) *model.Post {
	t.Helper()
	post, err := e.postService.Create(context.Background(), owner.ID, text, "")
	require.NoError(t, err)
	return post
}

// waitForEvents blocks until n events were pushed on channel
func (e *testEnv) waitForEvents(t *testing.T, channel, event string, n int) []pushtest.Event {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(e.recorder.Find(channel, event)) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return e.recorder.Find(channel, event)
}
