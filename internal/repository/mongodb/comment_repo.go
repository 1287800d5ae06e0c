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

type commentRepository struct {
	db *Database
}

func NewCommentRepository(db *Database) *commentRepository {
	return &commentRepository{db}
}

func (r *commentRepository) coll() *mongo.Collection {
	return r.db.collection(commentsCollection)
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.coll().InsertOne(ctx, comment); err != nil {
		util.Logger.Error("failed to create comment", zap.String("post_id", comment.PostID.Hex()), zap.Error(err))
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to find comment", zap.String("comment_id", id.Hex()), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll().Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		util.Logger.Error("failed to list comments", zap.String("post_id", postID.Hex()), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []*model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{"post": postID})
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	comment.UpdatedAt = time.Now()
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": comment.ID},
		bson.M{"$set": bson.M{"text": comment.Text, "updatedAt": comment.UpdatedAt}},
	)
	if err != nil {
		util.Logger.Error("failed to update comment", zap.String("comment_id", comment.ID.Hex()), zap.Error(err))
	}
	return err
}

// DeleteWithReplies removes the comment and its direct replies in a single delete
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll().DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": id},
		bson.M{"parentId": id},
	}})
	if err != nil {
		util.Logger.Error("failed to delete comment", zap.String("comment_id", id.Hex()), zap.Error(err))
		return 0, err
	}
	return res.DeletedCount, nil
}
