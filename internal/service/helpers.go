package service

import (
	"context"
	"fmt"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier records a notification and schedules its real-time delivery
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// EventPublisher schedules a fire-and-forget real-time event
type EventPublisher interface {
	Publish(channel, event string, data interface{})
}

// ParseID converts a hex path parameter into an ObjectID; what names the resource in the error message
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.New(errors.ErrInvalidID, fmt.Sprintf("Invalid %s ID format", what))
	}
	return id, nil
}

func dbError(message string, err error) error {
	return errors.Wrap(errors.ErrDatabase, message, err)
}

// summariesByID loads the public projection of every id in one query
func summariesByID(ctx context.Context, repo interfaces.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.UserSummary, error) {
	unique := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*model.UserSummary, len(users))
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

// orderedSummaries resolves ids to summaries keeping their order and skipping dangling ids
func orderedSummaries(ctx context.Context, repo interfaces.UserRepository, ids []primitive.ObjectID) ([]*model.UserSummary, error) {
	byID, err := summariesByID(ctx, repo, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
