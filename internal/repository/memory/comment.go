package memory

import (
	"context"
	"sync"
	"time"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentMemoryRepository struct {
	mu       sync.RWMutex
	comments map[primitive.ObjectID]*model.Comment
}

func NewCommentMemoryRepository() *CommentMemoryRepository {
	return &CommentMemoryRepository{
		comments: make(map[primitive.ObjectID]*model.Comment),
	}
}

func cloneComment(c *model.Comment) *model.Comment {
	out := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	out.Author = nil
	return &out
}

func (r *CommentMemoryRepository) Create(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentMemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	return cloneComment(comment), nil
}

func (r *CommentMemoryRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := []*model.Comment{}
	for _, comment := range r.comments {
		if comment.PostID == postID {
			comments = append(comments, cloneComment(comment))
		}
	}
	sortByCreated(comments, func(c *model.Comment) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID }, false)
	return comments, nil
}

func (r *CommentMemoryRepository) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, comment := range r.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *CommentMemoryRepository) Update(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[comment.ID]
	if !ok {
		return nil
	}
	comment.UpdatedAt = time.Now()
	stored.Text = comment.Text
	stored.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *CommentMemoryRepository) DeleteWithReplies(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for key, comment := range r.comments {
		if key == id || (comment.ParentID != nil && *comment.ParentID == id) {
			delete(r.comments, key)
			deleted++
		}
	}
	return deleted, nil
}
