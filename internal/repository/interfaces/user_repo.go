package interfaces

import (
	"context"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository persists accounts and the follow graph stored on them
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	Search(ctx context.Context, query string, excludeID primitive.ObjectID) ([]*model.User, error)
	FindNotIn(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]*model.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error)
	// SetFollow adds (follow=true) or removes the follower->followed edge on both documents atomically.
	SetFollow(ctx context.Context, followerID, followedID primitive.ObjectID, follow bool) error
}
