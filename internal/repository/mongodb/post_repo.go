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

type postRepository struct {
	db *Database
}

func NewPostRepository(db *Database) *postRepository {
	return &postRepository{db}
}

func (r *postRepository) coll() *mongo.Collection {
	return r.db.collection(postsCollection)
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}

	if _, err := r.coll().InsertOne(ctx, post); err != nil {
		util.Logger.Error("failed to create post", zap.String("user_id", post.UserID.Hex()), zap.Error(err))
		return err
	}
	return nil
}

// FindByID returns nil, nil when the post does not exist
func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to find post", zap.String("post_id", id.Hex()), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, authors []primitive.ObjectID) ([]*model.Post, error) {
	filter := bson.M{}
	if authors != nil {
		filter["user"] = bson.M{"$in": authors}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		util.Logger.Error("failed to list posts", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []*model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update rewrites the editable fields of a post
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": post.ID},
		bson.M{"$set": bson.M{"text": post.Text, "image": post.Image, "updatedAt": post.UpdatedAt}},
	)
	if err != nil {
		util.Logger.Error("failed to update post", zap.String("post_id", post.ID.Hex()), zap.Error(err))
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		util.Logger.Error("failed to delete post", zap.String("post_id", id.Hex()), zap.Error(err))
	}
	return err
}

// ToggleLike adds the like only if absent, otherwise removes it. Each branch is a single
// conditional update so concurrent toggles never lose a write.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, bool, error) {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		util.Logger.Error("failed to like post", zap.String("post_id", postID.Hex()), zap.Error(err))
		return nil, false, err
	}

	liked := res.MatchedCount == 1
	if !liked {
		if _, err := r.coll().UpdateOne(ctx,
			bson.M{"_id": postID, "likes": userID},
			bson.M{"$pull": bson.M{"likes": userID}},
		); err != nil {
			util.Logger.Error("failed to unlike post", zap.String("post_id", postID.Hex()), zap.Error(err))
			return nil, false, err
		}
	}

	post, err := r.FindByID(ctx, postID)
	if err != nil || post == nil {
		return nil, false, err
	}
	return post, liked, nil
}
