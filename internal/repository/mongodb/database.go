package mongodb

import (
	"context"
	"fmt"
	"time"

	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	commentsCollection      = "comments"
	messagesCollection      = "messages"
	notificationsCollection = "notifications"
)

// Database bundles the client with the application database
type Database struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials MongoDB and verifies the connection with a ping.
// transactions must be false against a standalone server, which rejects multi-document transactions.
func Connect(ctx context.Context, uri, name string, transactions bool) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Database{
		client:       client,
		db:           client.Database(name),
		transactions: transactions,
	}, nil
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *Database) collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// EnsureIndexes creates the indexes the repositories rely on
func (d *Database) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "parentId", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "delivered", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := d.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			util.Logger.Error("failed to create indexes", zap.String("collection", name), zap.Error(err))
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// withTransaction runs fn inside a multi-document transaction when enabled, otherwise directly
func (d *Database) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !d.transactions {
		return fn(ctx)
	}

	session, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

var (
	_ interfaces.UserRepository         = (*userRepository)(nil)
	_ interfaces.PostRepository         = (*postRepository)(nil)
	_ interfaces.CommentRepository      = (*commentRepository)(nil)
	_ interfaces.MessageRepository      = (*messageRepository)(nil)
	_ interfaces.NotificationRepository = (*notificationRepository)(nil)
)
