package mongodb

import (
	"context"
	"time"

	"social-backend/internal/model"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type messageRepository struct {
	db *Database
}

func NewMessageRepository(db *Database) *messageRepository {
	return &messageRepository{db}
}

func (r *messageRepository) coll() *mongo.Collection {
	return r.db.collection(messagesCollection)
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.Read = false

	if _, err := r.coll().InsertOne(ctx, message); err != nil {
		util.Logger.Error("failed to create message",
			zap.String("sender", message.SenderID.Hex()),
			zap.String("recipient", message.RecipientID.Hex()),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *messageRepository) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]*model.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userID},
		bson.M{"recipient": userID},
	}}
	return r.find(ctx, filter, -1)
}

func (r *messageRepository) ListBetween(ctx context.Context, a, b primitive.ObjectID) ([]*model.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
	return r.find(ctx, filter, 1)
}

func (r *messageRepository) find(ctx context.Context, filter bson.M, order int) ([]*model.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}, {Key: "_id", Value: order}})
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		util.Logger.Error("failed to query messages", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []*model.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID, senderID primitive.ObjectID) (int64, error) {
	filter := bson.M{"recipient": recipientID, "read": false}
	if !senderID.IsZero() {
		filter["sender"] = senderID
	}
	return r.coll().CountDocuments(ctx, filter)
}

// MarkRead flags every unread message from sender to recipient and returns how many changed
func (r *messageRepository) MarkRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error) {
	res, err := r.coll().UpdateMany(ctx,
		bson.M{"sender": senderID, "recipient": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		util.Logger.Error("failed to mark messages read", zap.Error(err))
		return 0, err
	}
	return res.ModifiedCount, nil
}
