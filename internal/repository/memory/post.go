package memory

import (
	"context"
	"sync"
	"time"

	"social-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostMemoryRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*model.Post
}

func NewPostMemoryRepository() *PostMemoryRepository {
	return &PostMemoryRepository{
		posts: make(map[primitive.ObjectID]*model.Post),
	}
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Likes = copyIDs(p.Likes)
	c.Author = nil
	c.IsLikedByUser = false
	return &c
}

func (r *PostMemoryRepository) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostMemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(post), nil
}

func (r *PostMemoryRepository) List(ctx context.Context, authors []primitive.ObjectID) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := []*model.Post{}
	for _, post := range r.posts {
		if authors == nil || model.ContainsID(authors, post.UserID) {
			posts = append(posts, clonePost(post))
		}
	}
	sortByCreated(posts, func(p *model.Post) (time.Time, primitive.ObjectID) { return p.CreatedAt, p.ID }, true)
	return posts, nil
}

func (r *PostMemoryRepository) Update(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return nil
	}
	post.UpdatedAt = time.Now()
	stored.Text = post.Text
	stored.Image = post.Image
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *PostMemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

func (r *PostMemoryRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*model.Post, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, false, nil
	}

	liked := !model.ContainsID(post.Likes, userID)
	if liked {
		post.Likes = addID(post.Likes, userID)
	} else {
		post.Likes = removeID(post.Likes, userID)
	}
	return clonePost(post), liked, nil
}
