// Package repository wraps the API service with the error messages and
// session handling the CLI screens rely on.
package repository

import (
	"context"
	"errors"
	"fmt"

	"techknowledgepills/pkg/client/api"
	"techknowledgepills/pkg/client/model"
	"techknowledgepills/pkg/client/session"
)

// AuthAPI is the slice of the API service used for accounts
type AuthAPI interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// ContentAPI is the slice of the API service used for knowledge pills
type ContentAPI interface {
	GetAllContent(ctx context.Context) ([]model.Content, error)
	GetContent(ctx context.Context, id string) (*model.Content, error)
	GetContentByType(ctx context.Context, t model.ContentType) ([]model.Content, error)
	CompleteContent(ctx context.Context, id string, rating *int) error
}

// RecommendationAPI is the slice of the API service used for recommendations
type RecommendationAPI interface {
	GetRecommendations(ctx context.Context) ([]model.Content, error)
}

// StressAPI is the slice of the API service used for stress indicators
type StressAPI interface {
	GetStressIndicators(ctx context.Context) ([]model.StressIndicator, error)
	GetLatestStressIndicator(ctx context.Context) (*model.StressIndicator, error)
	CreateStressIndicator(ctx context.Context, req model.CreateStressIndicatorRequest) (*model.StressIndicator, error)
	GenerateMockStressData(ctx context.Context, count int) ([]model.StressIndicator, error)
}

// SessionStore persists who is signed in
type SessionStore interface {
	Save(s session.Session) error
	Clear() error
	IsLoggedIn() bool
}

var _ AuthAPI = (*api.Service)(nil)
var _ ContentAPI = (*api.Service)(nil)
var _ RecommendationAPI = (*api.Service)(nil)
var _ StressAPI = (*api.Service)(nil)

// ErrNotLoggedIn is returned by CurrentUser without a stored session
var ErrNotLoggedIn = errors.New("not logged in")

// AuthRepository signs users in and out
type AuthRepository struct {
	api      AuthAPI
	sessions SessionStore
}

func NewAuthRepository(a AuthAPI, sessions SessionStore) *AuthRepository {
	return &AuthRepository{api: a, sessions: sessions}
}

// Register creates the account and stores its tokens
func (r *AuthRepository) Register(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	resp, err := r.api.Register(ctx, model.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	if err := r.store(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Login authenticates and stores the tokens
func (r *AuthRepository) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	resp, err := r.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if err := r.store(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout forgets the stored session. Tokens are stateless, so the
// server is not contacted.
func (r *AuthRepository) Logout() error {
	if err := r.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CurrentUser asks the server who the stored token belongs to
func (r *AuthRepository) CurrentUser(ctx context.Context) (*model.User, error) {
	if !r.sessions.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	user, err := r.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user, nil
}

func (r *AuthRepository) store(resp *model.AuthResponse) error {
	err := r.sessions.Save(session.Session{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.UserID,
		Email:        resp.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ContentRepository reads knowledge pills
type ContentRepository struct {
	api ContentAPI
}

func NewContentRepository(a ContentAPI) *ContentRepository {
	return &ContentRepository{api: a}
}

func (r *ContentRepository) GetAll(ctx context.Context) ([]model.Content, error) {
	list, err := r.api.GetAllContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	return list, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*model.Content, error) {
	c, err := r.api.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content %s: %w", id, err)
	}
	return c, nil
}

func (r *ContentRepository) GetByType(ctx context.Context, t model.ContentType) ([]model.Content, error) {
	list, err := r.api.GetContentByType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content by type: %w", err)
	}
	return list, nil
}

// Complete marks a pill as done; rating is optional
func (r *ContentRepository) Complete(ctx context.Context, id string, rating *int) error {
	if err := r.api.CompleteContent(ctx, id, rating); err != nil {
		return fmt.Errorf("failed to complete content: %w", err)
	}
	return nil
}

// RecommendationRepository reads personalised recommendations
type RecommendationRepository struct {
	api RecommendationAPI
}

func NewRecommendationRepository(a RecommendationAPI) *RecommendationRepository {
	return &RecommendationRepository{api: a}
}

func (r *RecommendationRepository) GetRecommendations(ctx context.Context) ([]model.Content, error) {
	list, err := r.api.GetRecommendations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return list, nil
}

// StressIndicatorRepository reads and records stress readings
type StressIndicatorRepository struct {
	api StressAPI
}

func NewStressIndicatorRepository(a StressAPI) *StressIndicatorRepository {
	return &StressIndicatorRepository{api: a}
}

func (r *StressIndicatorRepository) GetAll(ctx context.Context) ([]model.StressIndicator, error) {
	list, err := r.api.GetStressIndicators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stress indicators: %w", err)
	}
	return list, nil
}

// GetLatest returns (nil, nil) when the user has no readings yet
func (r *StressIndicatorRepository) GetLatest(ctx context.Context) (*model.StressIndicator, error) {
	latest, err := r.api.GetLatestStressIndicator(ctx)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest stress indicator: %w", err)
	}
	return latest, nil
}

func (r *StressIndicatorRepository) Create(ctx context.Context, level model.StressLevel, notes string) (*model.StressIndicator, error) {
	req := model.CreateStressIndicatorRequest{StressLevel: level}
	if notes != "" {
		req.Notes = &notes
	}
	created, err := r.api.CreateStressIndicator(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to record stress indicator: %w", err)
	}
	return created, nil
}

func (r *StressIndicatorRepository) GenerateMock(ctx context.Context, count int) ([]model.StressIndicator, error) {
	list, err := r.api.GenerateMockStressData(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mock data: %w", err)
	}
	return list, nil
}
