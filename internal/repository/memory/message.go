package memory

import (
	"context"
	"sync"
	"time"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageMemoryRepository struct {
	mu       sync.RWMutex
	messages []*model.Message
}

func NewMessageMemoryRepository() *MessageMemoryRepository {
	return &MessageMemoryRepository{}
}

func (r *MessageMemoryRepository) Create(ctx context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.Read = false

	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *MessageMemoryRepository) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]*model.Message, error) {
	return r.filter(func(m *model.Message) bool {
		return m.SenderID == userID || m.RecipientID == userID
	}, true), nil
}

func (r *MessageMemoryRepository) ListBetween(ctx context.Context, a, b primitive.ObjectID) ([]*model.Message, error) {
	return r.filter(func(m *model.Message) bool {
		return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
	}, false), nil
}

func (r *MessageMemoryRepository) filter(match func(*model.Message) bool, newestFirst bool) []*model.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := []*model.Message{}
	for _, m := range r.messages {
		if match(m) {
			c := *m
			messages = append(messages, &c)
		}
	}
	sortByCreated(messages, func(m *model.Message) (time.Time, primitive.ObjectID) { return m.CreatedAt, m.ID }, newestFirst)
	return messages
}

func (r *MessageMemoryRepository) CountUnread(ctx context.Context, recipientID, senderID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, m := range r.messages {
		if m.RecipientID == recipientID && !m.Read && (senderID.IsZero() || m.SenderID == senderID) {
			count++
		}
	}
	return count, nil
}

func (r *MessageMemoryRepository) MarkRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for _, m := range r.messages {
		if m.SenderID == senderID && m.RecipientID == recipientID && !m.Read {
			m.Read = true
			modified++
		}
	}
	return modified, nil
}
