package service

import (
	"context"
	"testing"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner")
	commenter := env.createUser(t, "Commenter")
	post := env.createPost(t, owner, "discuss")

	comment, err := env.commentService.Add(ctx, post.ID, commenter.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, "Commenter", comment.Author.Name)
	assert.False(t, comment.IsReply())

	events := env.waitForEvents(t, push.UserChannel(owner.ID.Hex()), push.EventNotification, 1)
	n := events[0].Data.(*model.Notification)
	assert.Equal(t, model.NotificationComment, n.Type)
	assert.Equal(t, comment.ID, *n.CommentID)

	_, err = env.commentService.Add(ctx, primitive.NewObjectID(), commenter.ID, "orphan")
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

func TestReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner")
	commenter := env.createUser(t, "Commenter")
	replier := env.createUser(t, "Replier")
	post := env.createPost(t, owner, "discuss")

	parent, err := env.commentService.Add(ctx, post.ID, commenter.ID, "parent")
	require.NoError(t, err)

	reply, err := env.commentService.Reply(ctx, parent.ID, replier.ID, "child")
	require.NoError(t, err)
	require.True(t, reply.IsReply())
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, post.ID, reply.PostID)

	events := env.waitForEvents(t, push.UserChannel(commenter.ID.Hex()), push.EventNotification, 1)
	assert.Equal(t, model.NotificationReply, events[0].Data.(*model.Notification).Type)

	_, err = env.commentService.Reply(ctx, reply.ID, owner.ID, "grandchild")
	assert.True(t, errors.Is(err, errors.ErrNestedReply))

	_, err = env.commentService.Reply(ctx, primitive.NewObjectID(), owner.ID, "nothing")
	assert.True(t, errors.Is(err, errors.ErrCommentNotFound))

	comments, err := env.commentService.List(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, parent.ID, comments[0].ID)
	assert.Equal(t, reply.ID, comments[1].ID)

	count, err := env.commentService.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteComment_RemovesReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner")
	other := env.createUser(t, "Other")
	post := env.createPost(t, owner, "discuss")

	parent, err := env.commentService.Add(ctx, post.ID, owner.ID, "parent")
	require.NoError(t, err)
	_, err = env.commentService.Reply(ctx, parent.ID, other.ID, "reply")
	require.NoError(t, err)
	unrelated, err := env.commentService.Add(ctx, post.ID, other.ID, "unrelated")
	require.NoError(t, err)

	err = env.commentService.Delete(ctx, parent.ID, other.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	require.NoError(t, env.commentService.Delete(ctx, parent.ID, owner.ID))

	comments, err := env.commentService.List(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, unrelated.ID, comments[0].ID)
}

func TestUpdateComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner")
	other := env.createUser(t, "Other")
	post := env.createPost(t, owner, "discuss")
	comment, err := env.commentService.Add(ctx, post.ID, owner.ID, "tyop")
	require.NoError(t, err)

	_, err = env.commentService.Update(ctx, comment.ID, other.ID, "vandal")
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	updated, err := env.commentService.Update(ctx, comment.ID, owner.ID, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", updated.Text)
	assert.Equal(t, "Owner", updated.Author.Name)
}
