package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID    primitive.ObjectID `json:"sender" bson:"sender"`
	RecipientID primitive.ObjectID `json:"recipient" bson:"recipient"`
	Text        string             `json:"text" bson:"text"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Conversation is a counterpart of the requester with the number of unread messages they sent
type Conversation struct {
	UserSummary
	UnreadCount int64 `json:"unreadCount"`
}

// ReadReceipt is pushed to a sender once the recipient opens the conversation
type ReadReceipt struct {
	ReaderID primitive.ObjectID `json:"readerId"`
	SenderID primitive.ObjectID `json:"senderId"`
}
