package service

import (
	"context"
	stderrors "errors"

	"social-backend/internal/errors"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts and sessions
type UserService struct {
	userRepo     interfaces.UserRepository
	emailService *EmailService
}

// NewUserService creates a UserService; emailService may be nil
func NewUserService(userRepo interfaces.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Register creates the account and returns it with a fresh session token
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", dbError("failed to check email", err)
	}
	if existing != nil {
		return nil, "", errors.New(errors.ErrUserExists, "User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, "", errors.Wrap(errors.ErrValidation, "Password must be at most 72 bytes", err)
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if stderrors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, "", errors.New(errors.ErrUserExists, "User already exists")
		}
		return nil, "", dbError("failed to create user", err)
	}

	token, err := util.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "failed to issue token", err)
	}

	if s.emailService != nil {
		s.emailService.SendWelcomeEmail(user.Email, user.Name)
	}

	util.Logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh session token
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", dbError("failed to find user", err)
	}
	if user == nil {
		return nil, "", errors.New(errors.ErrUserNotFound, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("login rejected", zap.String("user_id", user.ID.Hex()))
		return nil, "", errors.New(errors.ErrInvalidCredentials, "Invalid Password")
	}

	token, err := util.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "failed to issue token", err)
	}
	return user, token, nil
}

// GetProfile returns the user with followers and following resolved to summaries
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError("failed to find user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	followers, err := orderedSummaries(ctx, s.userRepo, user.Followers)
	if err != nil {
		return nil, dbError("failed to load followers", err)
	}
	following, err := orderedSummaries(ctx, s.userRepo, user.Following)
	if err != nil {
		return nil, dbError("failed to load following", err)
	}

	return &model.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Followers: followers,
		Following: following,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// UpdateAvatar overwrites the avatar of targetID. Any authenticated caller may do so;
// updates on someone else's account are logged.
func (s *UserService) UpdateAvatar(ctx context.Context, callerID, targetID primitive.ObjectID, avatar string) (*model.User, error) {
	if callerID != targetID {
		util.Logger.Warn("avatar updated by another user",
			zap.String("user_id", callerID.Hex()),
			zap.String("target_id", targetID.Hex()))
	}

	user, err := s.userRepo.UpdateAvatar(ctx, targetID, avatar)
	if err != nil {
		return nil, dbError("failed to update avatar", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}
	return user, nil
}

type UserServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Profile, error)
	UpdateAvatar(ctx context.Context, callerID, targetID primitive.ObjectID, avatar string) (*model.User, error)
}

var _ UserServiceInterface = (*UserService)(nil)
