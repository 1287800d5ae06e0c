package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserMemoryRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*model.User
}

func NewUserMemoryRepository() *UserMemoryRepository {
	return &UserMemoryRepository{
		users: make(map[primitive.ObjectID]*model.User),
	}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Followers = copyIDs(u.Followers)
	c.Following = copyIDs(u.Following)
	return &c
}

func (r *UserMemoryRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return interfaces.ErrDuplicateKey
		}
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserMemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (r *UserMemoryRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (r *UserMemoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []*model.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *UserMemoryRepository) Search(ctx context.Context, query string, excludeID primitive.ObjectID) ([]*model.User, error) {
	needle := strings.ToLower(query)
	return r.filter(func(u *model.User) bool {
		if u.ID == excludeID {
			return false
		}
		return strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle)
	}, 0), nil
}

func (r *UserMemoryRepository) FindNotIn(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]*model.User, error) {
	return r.filter(func(u *model.User) bool {
		return !model.ContainsID(exclude, u.ID)
	}, limit), nil
}

// filter returns matches in insertion order, capped at limit when limit > 0
func (r *UserMemoryRepository) filter(match func(*model.User) bool, limit int64) []*model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []*model.User{}
	for _, user := range r.users {
		if match(user) {
			users = append(users, cloneUser(user))
		}
	}
	sortByCreated(users, func(u *model.User) (time.Time, primitive.ObjectID) { return u.CreatedAt, u.ID }, false)

	if limit > 0 && int64(len(users)) > limit {
		users = users[:limit]
	}
	return users
}

func (r *UserMemoryRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user.Avatar = avatar
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

// SetFollow updates both users under one lock
func (r *UserMemoryRepository) SetFollow(ctx context.Context, followerID, followedID primitive.ObjectID, follow bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	follower, ok := r.users[followerID]
	if !ok {
		return nil
	}
	followed, ok := r.users[followedID]
	if !ok {
		return nil
	}

	if follow {
		follower.Following = addID(follower.Following, followedID)
		followed.Followers = addID(followed.Followers, followerID)
	} else {
		follower.Following = removeID(follower.Following, followedID)
		followed.Followers = removeID(followed.Followers, followerID)
	}
	now := time.Now()
	follower.UpdatedAt = now
	followed.UpdatedAt = now
	return nil
}
