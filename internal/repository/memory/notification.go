package memory

import (
	"context"
	"sync"
	"time"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationMemoryRepository struct {
	mu            sync.RWMutex
	notifications map[primitive.ObjectID]*model.Notification
}

func NewNotificationMemoryRepository() *NotificationMemoryRepository {
	return &NotificationMemoryRepository{
		notifications: make(map[primitive.ObjectID]*model.Notification),
	}
}

func cloneNotification(n *model.Notification) *model.Notification {
	c := *n
	c.Sender = nil
	return &c
}

func (r *NotificationMemoryRepository) Create(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.Delivered = false
	n.Attempts = 0
	r.notifications[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationMemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	return cloneNotification(n), nil
}

func (r *NotificationMemoryRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Notification{}
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, cloneNotification(n))
		}
	}
	sortByCreated(out, func(n *model.Notification) (time.Time, primitive.ObjectID) { return n.CreatedAt, n.ID }, true)
	return out, nil
}

func (r *NotificationMemoryRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationMemoryRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.notifications[id]; ok {
		n.Delivered = true
		n.DeliveredAt = &at
	}
	return nil
}

func (r *NotificationMemoryRepository) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.notifications[id]; ok {
		n.Attempts++
	}
	return nil
}

func (r *NotificationMemoryRepository) ListUndelivered(ctx context.Context, before time.Time, maxAttempts int, limit int64) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Notification{}
	for _, n := range r.notifications {
		if !n.Delivered && n.CreatedAt.Before(before) && n.Attempts < maxAttempts {
			out = append(out, cloneNotification(n))
		}
	}
	sortByCreated(out, func(n *model.Notification) (time.Time, primitive.ObjectID) { return n.CreatedAt, n.ID }, false)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
