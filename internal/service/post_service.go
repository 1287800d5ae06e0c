package service

import (
	"context"
	"strings"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FilterFollowing restricts a post listing to authors the requester follows
const FilterFollowing = "following"

type PostService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
	notifier Notifier
}

func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository, notifier Notifier) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *PostService) Create(ctx context.Context, ownerID primitive.ObjectID, text, image string) (*model.Post, error) {
	if strings.TrimSpace(text) == "" && image == "" {
		return nil, errors.New(errors.ErrValidation, "Post text or image is required")
	}

	post := &model.Post{
		UserID: ownerID,
		Text:   text,
		Image:  image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, dbError("failed to create post", err)
	}

	if err := s.decorate(ctx, []*model.Post{post}, ownerID); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns every post, or with FilterFollowing only those by followed users, newest first
func (s *PostService) List(ctx context.Context, requesterID primitive.ObjectID, filter string) ([]*model.Post, error) {
	var authors []primitive.ObjectID
	if filter == FilterFollowing {
		requester, err := s.userRepo.FindByID(ctx, requesterID)
		if err != nil {
			return nil, dbError("failed to find user", err)
		}
		if requester == nil || len(requester.Following) == 0 {
			return []*model.Post{}, nil
		}
		authors = requester.Following
	}

	posts, err := s.postRepo.List(ctx, authors)
	if err != nil {
		return nil, dbError("failed to list posts", err)
	}
	if err := s.decorate(ctx, posts, requesterID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id, requesterID primitive.ObjectID) (*model.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, []*model.Post{post}, requesterID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListByUser is the public listing of one author's posts
func (s *PostService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx, []primitive.ObjectID{userID})
	if err != nil {
		return nil, dbError("failed to list posts", err)
	}
	if err := s.decorate(ctx, posts, primitive.NilObjectID); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update overwrites text and image when they are non-empty; only the owner may edit
func (s *PostService) Update(ctx context.Context, id, requesterID primitive.ObjectID, text, image string) (*model.Post, error) {
	post, err := s.owned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if text != "" {
		post.Text = text
	}
	if image != "" {
		post.Image = image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, dbError("failed to update post", err)
	}

	if err := s.decorate(ctx, []*model.Post{post}, requesterID); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post. Its comments are kept.
func (s *PostService) Delete(ctx context.Context, id, requesterID primitive.ObjectID) error {
	if _, err := s.owned(ctx, id, requesterID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return dbError("failed to delete post", err)
	}
	util.Logger.Info("post deleted", zap.String("post_id", id.Hex()), zap.String("user_id", requesterID.Hex()))
	return nil
}

// ToggleLike flips the requester's like and notifies the owner on a new like
func (s *PostService) ToggleLike(ctx context.Context, postID, requesterID primitive.ObjectID) (*model.LikeResult, error) {
	post, liked, err := s.postRepo.ToggleLike(ctx, postID, requesterID)
	if err != nil {
		return nil, dbError("failed to toggle like", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}

	if liked && post.UserID != requesterID {
		pid := post.ID
		n := &model.Notification{
			RecipientID: post.UserID,
			SenderID:    requesterID,
			Type:        model.NotificationLike,
			PostID:      &pid,
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			util.Logger.Error("failed to notify like", zap.String("post_id", postID.Hex()), zap.Error(err))
		}
	}

	return &model.LikeResult{
		ID:         post.ID,
		Liked:      liked,
		LikesCount: len(post.Likes),
	}, nil
}

func (s *PostService) find(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError("failed to find post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}
	return post, nil
}

func (s *PostService) owned(ctx context.Context, id, requesterID primitive.ObjectID) (*model.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != requesterID {
		return nil, errors.New(errors.ErrForbidden, "Not Authorized")
	}
	return post, nil
}

// decorate populates authors and the requester's like state
func (s *PostService) decorate(ctx context.Context, posts []*model.Post, requesterID primitive.ObjectID) error {
	owners := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		owners = append(owners, p.UserID)
	}
	authors, err := summariesByID(ctx, s.userRepo, owners)
	if err != nil {
		return dbError("failed to load authors", err)
	}
	for _, p := range posts {
		p.Author = authors[p.UserID]
		p.IsLikedByUser = !requesterID.IsZero() && p.LikedBy(requesterID)
	}
	return nil
}

type PostServiceInterface interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, text, image string) (*model.Post, error)
	List(ctx context.Context, requesterID primitive.ObjectID, filter string) ([]*model.Post, error)
	Get(ctx context.Context, id, requesterID primitive.ObjectID) (*model.Post, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Post, error)
	Update(ctx context.Context, id, requesterID primitive.ObjectID, text, image string) (*model.Post, error)
	Delete(ctx context.Context, id, requesterID primitive.ObjectID) error
	ToggleLike(ctx context.Context, postID, requesterID primitive.ObjectID) (*model.LikeResult, error)
}

var _ PostServiceInterface = (*PostService)(nil)
