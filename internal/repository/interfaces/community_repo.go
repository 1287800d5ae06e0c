package interfaces

import (
	"context"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository persists posts and their like sets
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	// List returns posts newest first; a nil authors slice means all authors.
	List(ctx context.Context, authors []primitive.ObjectID) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ToggleLike flips userID's membership in the like set and returns the post after the change.
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (post *model.Post, liked bool, err error)
}

// CommentRepository persists comments and replies
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	// ListByPost returns every comment of a post, replies included, oldest first.
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, comment *model.Comment) error
	// DeleteWithReplies removes the comment and every comment whose parentId is id.
	DeleteWithReplies(ctx context.Context, id primitive.ObjectID) (int64, error)
}
