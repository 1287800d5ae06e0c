package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the events that notify a user
type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
)

// Notification doubles as an outbox entry: Delivered and Attempts track the real-time push
type Notification struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RecipientID primitive.ObjectID  `json:"recipient" bson:"recipient"`
	SenderID    primitive.ObjectID  `json:"senderId" bson:"sender"`
	Type        NotificationType    `json:"type" bson:"type"`
	PostID      *primitive.ObjectID `json:"post,omitempty" bson:"post,omitempty"`
	CommentID   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Read        bool                `json:"read" bson:"read"`
	Delivered   bool                `json:"-" bson:"delivered"`
	Attempts    int                 `json:"-" bson:"attempts"`
	DeliveredAt *time.Time          `json:"-" bson:"deliveredAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	Sender      *UserSummary        `json:"sender,omitempty" bson:"-"`
}
