package service

import (
	"context"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService manages comments and their single level of replies
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
	userRepo    interfaces.UserRepository
	notifier    Notifier
}

func NewCommentService(commentRepo interfaces.CommentRepository, postRepo interfaces.PostRepository, userRepo interfaces.UserRepository, notifier Notifier) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Add creates a top-level comment and notifies the post owner
func (s *CommentService) Add(ctx context.Context, postID, authorID primitive.ObjectID, text string) (*model.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, dbError("failed to find post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}

	comment := &model.Comment{
		UserID: authorID,
		PostID: postID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, dbError("failed to create comment", err)
	}

	if post.UserID != authorID {
		s.notify(ctx, post.UserID, authorID, model.NotificationComment, postID, comment.ID)
	}

	if err := s.populate(ctx, []*model.Comment{comment}); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns every comment on the post, replies included, oldest first
func (s *CommentService) List(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, dbError("failed to list comments", err)
	}
	if err := s.populate(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Reply answers a top-level comment; replies to replies are rejected
func (s *CommentService) Reply(ctx context.Context, parentID, authorID primitive.ObjectID, text string) (*model.Comment, error) {
	parent, err := s.find(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.IsReply() {
		return nil, errors.New(errors.ErrNestedReply, "Cannot reply to a reply")
	}

	pid := parent.ID
	reply := &model.Comment{
		UserID:   authorID,
		PostID:   parent.PostID,
		ParentID: &pid,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, dbError("failed to create reply", err)
	}

	if parent.UserID != authorID {
		s.notify(ctx, parent.UserID, authorID, model.NotificationReply, parent.PostID, reply.ID)
	}

	if err := s.populate(ctx, []*model.Comment{reply}); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *CommentService) Update(ctx context.Context, id, requesterID primitive.ObjectID, text string) (*model.Comment, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != requesterID {
		return nil, errors.New(errors.ErrForbidden, "Not authorized to edit this comment")
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, dbError("failed to update comment", err)
	}

	if err := s.populate(ctx, []*model.Comment{comment}); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment together with its replies
func (s *CommentService) Delete(ctx context.Context, id, requesterID primitive.ObjectID) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != requesterID {
		return errors.New(errors.ErrForbidden, "Not authorized to delete this comment")
	}

	deleted, err := s.commentRepo.DeleteWithReplies(ctx, id)
	if err != nil {
		return dbError("failed to delete comment", err)
	}
	util.Logger.Info("comment deleted", zap.String("comment_id", id.Hex()), zap.Int64("removed", deleted))
	return nil
}

func (s *CommentService) Count(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	count, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return 0, dbError("failed to count comments", err)
	}
	return count, nil
}

func (s *CommentService) find(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError("failed to find comment", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "Comment not found")
	}
	return comment, nil
}

func (s *CommentService) notify(ctx context.Context, recipient, sender primitive.ObjectID, kind model.NotificationType, postID, commentID primitive.ObjectID) {
	n := &model.Notification{
		RecipientID: recipient,
		SenderID:    sender,
		Type:        kind,
		PostID:      &postID,
		CommentID:   &commentID,
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		util.Logger.Error("failed to notify comment",
			zap.String("type", string(kind)),
			zap.String("comment_id", commentID.Hex()),
			zap.Error(err))
	}
}

func (s *CommentService) populate(ctx context.Context, comments []*model.Comment) error {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := summariesByID(ctx, s.userRepo, ids)
	if err != nil {
		return dbError("failed to load authors", err)
	}
	for _, c := range comments {
		c.Author = authors[c.UserID]
	}
	return nil
}

type CommentServiceInterface interface {
	Add(ctx context.Context, postID, authorID primitive.ObjectID, text string) (*model.Comment, error)
	List(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error)
	Reply(ctx context.Context, parentID, authorID primitive.ObjectID, text string) (*model.Comment, error)
	Update(ctx context.Context, id, requesterID primitive.ObjectID, text string) (*model.Comment, error)
	Delete(ctx context.Context, id, requesterID primitive.ObjectID) error
	Count(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

var _ CommentServiceInterface = (*CommentService)(nil)
