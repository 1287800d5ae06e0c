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

const suggestionLimit = 5

// SocialService manages the follow graph and user discovery
type SocialService struct {
	userRepo interfaces.UserRepository
	notifier Notifier
}

func NewSocialService(userRepo interfaces.UserRepository, notifier Notifier) *SocialService {
	return &SocialService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Search matches name or email, case-insensitively, excluding the requester
func (s *SocialService) Search(ctx context.Context, query string, requesterID primitive.ObjectID) ([]*model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.SearchResult{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, requesterID)
	if err != nil {
		return nil, dbError("failed to search users", err)
	}
	return toSearchResults(users), nil
}

// Suggestions returns up to five users the requester does not follow yet
func (s *SocialService) Suggestions(ctx context.Context, requesterID primitive.ObjectID) ([]*model.SearchResult, error) {
	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	if requester == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	exclude := append(append([]primitive.ObjectID{}, requester.Following...), requester.ID)
	users, err := s.userRepo.FindNotIn(ctx, exclude, suggestionLimit)
	if err != nil {
		return nil, dbError("failed to load suggestions", err)
	}
	return toSearchResults(users), nil
}

// ToggleFollow follows targetID if the requester does not follow it yet, otherwise unfollows
func (s *SocialService) ToggleFollow(ctx context.Context, requesterID, targetID primitive.ObjectID) (*model.FollowResult, error) {
	if requesterID == targetID {
		return nil, errors.New(errors.ErrSelfFollow, "You cannot follow yourself")
	}

	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	if requester == nil || target == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	follow := !requester.IsFollowing(targetID)
	if err := s.userRepo.SetFollow(ctx, requesterID, targetID, follow); err != nil {
		return nil, dbError("failed to update follow", err)
	}

	if follow {
		n := &model.Notification{
			RecipientID: targetID,
			SenderID:    requesterID,
			Type:        model.NotificationFollow,
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			util.Logger.Error("failed to notify follow", zap.String("user_id", requesterID.Hex()), zap.Error(err))
		}
	}

	if requester, err = s.userRepo.FindByID(ctx, requesterID); err != nil {
		return nil, dbError("failed to reload user", err)
	}
	if target, err = s.userRepo.FindByID(ctx, targetID); err != nil {
		return nil, dbError("failed to reload user", err)
	}
	// either account may have been deleted since the follow was written
	if requester == nil || target == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	return &model.FollowResult{
		Following:      requester.Following,
		FollowersCount: len(target.Followers),
		IsFollowing:    follow,
	}, nil
}

func (s *SocialService) Followers(ctx context.Context, id primitive.ObjectID) ([]*model.UserSummary, error) {
	return s.relations(ctx, id, func(u *model.User) []primitive.ObjectID { return u.Followers })
}

func (s *SocialService) Following(ctx context.Context, id primitive.ObjectID) ([]*model.UserSummary, error) {
	return s.relations(ctx, id, func(u *model.User) []primitive.ObjectID { return u.Following })
}

func (s *SocialService) relations(ctx context.Context, id primitive.ObjectID, pick func(*model.User) []primitive.ObjectID) ([]*model.UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	summaries, err := orderedSummaries(ctx, s.userRepo, pick(user))
	if err != nil {
		return nil, dbError("failed to load users", err)
	}
	return summaries, nil
}

func toSearchResults(users []*model.User) []*model.SearchResult {
	out := make([]*model.SearchResult, 0, len(users))
	for _, u := range users {
		out = append(out, &model.SearchResult{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Avatar:    u.Avatar,
			Followers: u.Followers,
			Following: u.Following,
		})
	}
	return out
}

type SocialServiceInterface interface {
	Search(ctx context.Context, query string, requesterID primitive.ObjectID) ([]*model.SearchResult, error)
	Suggestions(ctx context.Context, requesterID primitive.ObjectID) ([]*model.SearchResult, error)
	ToggleFollow(ctx context.Context, requesterID, targetID primitive.ObjectID) (*model.FollowResult, error)
	Followers(ctx context.Context, id primitive.ObjectID) ([]*model.UserSummary, error)
	Following(ctx context.Context, id primitive.ObjectID) ([]*model.UserSummary, error)
}

var _ SocialServiceInterface = (*SocialService)(nil)
