package service

import (
	"context"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/push"
	"social-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService handles direct messages between two users
type MessageService struct {
	messageRepo interfaces.MessageRepository
	userRepo    interfaces.UserRepository
	events      EventPublisher
}

func NewMessageService(messageRepo interfaces.MessageRepository, userRepo interfaces.UserRepository, events EventPublisher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// Conversations lists everyone the requester has exchanged messages with, most recent first,
// each with the number of unread messages they sent
func (s *MessageService) Conversations(ctx context.Context, requesterID primitive.ObjectID) ([]*model.Conversation, error) {
	messages, err := s.messageRepo.ListInvolving(ctx, requesterID)
	if err != nil {
		return nil, dbError("failed to list messages", err)
	}

	var counterparts []primitive.ObjectID
	seen := make(map[primitive.ObjectID]struct{})
	for _, m := range messages {
		other := m.SenderID
		if other == requesterID {
			other = m.RecipientID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		counterparts = append(counterparts, other)
	}

	summaries, err := orderedSummaries(ctx, s.userRepo, counterparts)
	if err != nil {
		return nil, dbError("failed to load users", err)
	}

	conversations := make([]*model.Conversation, 0, len(summaries))
	for _, summary := range summaries {
		unread, err := s.messageRepo.CountUnread(ctx, requesterID, summary.ID)
		if err != nil {
			return nil, dbError("failed to count unread messages", err)
		}
		conversations = append(conversations, &model.Conversation{
			UserSummary: *summary,
			UnreadCount: unread,
		})
	}
	return conversations, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, requesterID primitive.ObjectID) (int64, error) {
	count, err := s.messageRepo.CountUnread(ctx, requesterID, primitive.NilObjectID)
	if err != nil {
		return 0, dbError("failed to count unread messages", err)
	}
	return count, nil
}

// MarkRead flags the counterpart's messages to the requester as read and sends the counterpart a receipt
func (s *MessageService) MarkRead(ctx context.Context, counterpartID, requesterID primitive.ObjectID) (int64, error) {
	modified, err := s.messageRepo.MarkRead(ctx, counterpartID, requesterID)
	if err != nil {
		return 0, dbError("failed to mark messages read", err)
	}

	s.events.Publish(push.UserChannel(counterpartID.Hex()), push.EventMessageRead, model.ReadReceipt{
		ReaderID: requesterID,
		SenderID: counterpartID,
	})
	return modified, nil
}

// History returns the conversation between the pair, oldest first
func (s *MessageService) History(ctx context.Context, requesterID, counterpartID primitive.ObjectID) ([]*model.Message, error) {
	messages, err := s.messageRepo.ListBetween(ctx, requesterID, counterpartID)
	if err != nil {
		return nil, dbError("failed to load messages", err)
	}
	return messages, nil
}

func (s *MessageService) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, text string) (*model.Message, error) {
	recipient, err := s.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	if recipient == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	message := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, dbError("failed to send message", err)
	}

	payload := *message
	s.events.Publish(push.UserChannel(recipientID.Hex()), push.EventNewMessage, &payload)
	return message, nil
}

type MessageServiceInterface interface {
	Conversations(ctx context.Context, requesterID primitive.ObjectID) ([]*model.Conversation, error)
	UnreadCount(ctx context.Context, requesterID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, counterpartID, requesterID primitive.ObjectID) (int64, error)
	History(ctx context.Context, requesterID, counterpartID primitive.ObjectID) ([]*model.Message, error)
	Send(ctx context.Context, senderID, recipientID primitive.ObjectID, text string) (*model.Message, error)
}

var _ MessageServiceInterface = (*MessageService)(nil)
