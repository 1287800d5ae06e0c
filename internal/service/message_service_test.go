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

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")

	msg, err := env.messageService.Send(ctx, alice.ID, bob.ID, "hi")
	require.NoError(t, err)
	assert.False(t, msg.Read)

	events := env.waitForEvents(t, push.UserChannel(bob.ID.Hex()), push.EventNewMessage, 1)
	assert.Equal(t, "hi", events[0].Data.(*model.Message).Text)

	_, err = env.messageService.Send(ctx, alice.ID, primitive.NewObjectID(), "void")
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

func TestConversationsAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")
	carol := env.createUser(t, "Carol")

	send := func(from, to *model.User, text string) {
		_, err := env.messageService.Send(ctx, from.ID, to.ID, text)
		require.NoError(t, err)
	}
	send(bob, alice, "one")
	send(bob, alice, "two")
	send(alice, bob, "reply")
	send(carol, alice, "hey")
	send(alice, carol, "to carol")

	conversations, err := env.messageService.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "Carol", conversations[0].Name)
	assert.Equal(t, int64(1), conversations[0].UnreadCount)
	assert.Equal(t, "Bob", conversations[1].Name)
	assert.Equal(t, int64(2), conversations[1].UnreadCount)

	total, err := env.messageService.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	marked, err := env.messageService.MarkRead(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	// only bob->alice messages flip
	total, err = env.messageService.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	bobUnread, err := env.messageService.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobUnread)

	receipts := env.waitForEvents(t, push.UserChannel(bob.ID.Hex()), push.EventMessageRead, 1)
	receipt := receipts[0].Data.(model.ReadReceipt)
	assert.Equal(t, alice.ID, receipt.ReaderID)
	assert.Equal(t, bob.ID, receipt.SenderID)

	history, err := env.messageService.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Text)
	assert.Equal(t, "reply", history[2].Text)
}
