package interfaces

import (
	"context"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	// ListInvolving returns every message sent or received by userID, newest first.
	ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]*model.Message, error)
	// ListBetween returns the conversation of a pair, oldest first.
	ListBetween(ctx context.Context, a, b primitive.ObjectID) ([]*model.Message, error)
	// CountUnread counts unread messages to recipient; a zero sender counts from everyone.
	CountUnread(ctx context.Context, recipientID, senderID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error)
}
