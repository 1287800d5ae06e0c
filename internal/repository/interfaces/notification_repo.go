package interfaces

import (
	"context"
	"time"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error)
	CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error
	IncrementAttempts(ctx context.Context, id primitive.ObjectID) error
	// ListUndelivered returns outbox entries created before the cutoff with fewer than maxAttempts tries.
	ListUndelivered(ctx context.Context, before time.Time, maxAttempts int, limit int64) ([]*model.Notification, error)
}
