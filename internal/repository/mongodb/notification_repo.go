package mongodb

import (
	"context"
	"errors"
	"time"

	"social-backend/internal/model"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type notificationRepository struct {
	db *Database
}

func NewNotificationRepository(db *Database) *notificationRepository {
	return &notificationRepository{db}
}

func (r *notificationRepository) coll() *mongo.Collection {
	return r.db.collection(notificationsCollection)
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.Delivered = false
	n.Attempts = 0

	if _, err := r.coll().InsertOne(ctx, n); err != nil {
		util.Logger.Error("failed to create notification",
			zap.String("recipient", n.RecipientID.Hex()),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Notification, error) {
	var n model.Notification
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"recipient": recipientID}, opts)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{"recipient": recipientID, "read": false})
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"delivered": true, "deliveredAt": at}},
	)
	return err
}

func (r *notificationRepository) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"attempts": 1}})
	return err
}

func (r *notificationRepository) ListUndelivered(ctx context.Context, before time.Time, maxAttempts int, limit int64) ([]*model.Notification, error) {
	filter := bson.M{
		"delivered": false,
		"createdAt": bson.M{"$lt": before},
		"attempts":  bson.M{"$lt": maxAttempts},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

func (r *notificationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Notification, error) {
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		util.Logger.Error("failed to query notifications", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []*model.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
