package services

import (
	"context"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
	"techknowledgepills/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRequest is the payload of a registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the payload of a login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
}

// UserProfile is what /me returns
type UserProfile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

// AuthService registers and authenticates accounts.
// It runs outside the command bus because every operation returns tokens.
type AuthService struct {
	userRepo  ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = entities.NormalizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := req.Email
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, pkgerrors.ErrEmailTaken
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	user, err := entities.NewUser(uuid.NewString(), email, hash, s.now())
	if err != nil {
		return nil, err
	}
	// the store enforces uniqueness too; a concurrent registration surfaces as ErrEmailTaken
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if evts := user.GetUncommittedEvents(); len(evts) > 0 {
		if err := s.publisher.Publish(ctx, evts...); err != nil {
			s.logger.Warn("Failed to publish registration event", zap.String("userID", user.ID), zap.Error(err))
		} else {
			user.MarkEventsAsCommitted()
		}
	}

	s.logger.Info("User registered", zap.String("userID", user.ID))
	return s.issue(user)
}

// Login verifies credentials and stamps the login time. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, entities.NormalizeEmail(req.Email))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, pkgerrors.ErrInvalidRefreshToken
	}
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkgerrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.issue(user)
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}, nil
}

func (s *AuthService) issue(user *entities.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to issue tokens").WithCause(err)
	}
	return &AuthResult{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}
