// Package api is the typed client for the TechKnowledgePills REST API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/model"
)

// TokenStore is the session the service reads and refreshes
type TokenStore interface {
	Token() string
	RefreshToken() string
	SetTokens(token, refreshToken string) error
	Clear() error
}

// Service calls the REST API. A 401 on an authenticated call triggers one
// refresh and one retry.
type Service struct {
	baseURL *url.URL
	client  *http.Client
	codec   *Codec
	tokens  TokenStore
	logger  *zap.Logger
}

// NewService creates the API service
func NewService(cfg *config.Config, client *http.Client, codec *Codec, tokens TokenStore, logger *zap.Logger) (*Service, error) {
	base, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	return &Service{
		baseURL: base,
		client:  client,
		codec:   codec,
		tokens:  tokens,
		logger:  logger,
	}, nil
}

// Auth

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.do(ctx, http.MethodPost, "api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.do(ctx, http.MethodPost, "api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.do(ctx, http.MethodPost, "api/auth/refresh", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := s.do(ctx, http.MethodGet, "api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Content

func (s *Service) GetAllContent(ctx context.Context) ([]model.Content, error) {
	var out []model.Content
	if err := s.do(ctx, http.MethodGet, "api/content", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetContent(ctx context.Context, id string) (*model.Content, error) {
	var out model.Content
	if err := s.do(ctx, http.MethodGet, "api/content/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetContentByType(ctx context.Context, t model.ContentType) ([]model.Content, error) {
	var out []model.Content
	path := "api/content/type/" + strconv.Itoa(int(t))
	if err := s.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CompleteContent(ctx context.Context, id string, rating *int) error {
	path := "api/content/" + id + "/complete"
	return s.do(ctx, http.MethodPost, path, nil, model.CompleteRequest{Rating: rating}, nil)
}

// Stress indicators

func (s *Service) GetStressIndicators(ctx context.Context) ([]model.StressIndicator, error) {
	var out []model.StressIndicator
	if err := s.do(ctx, http.MethodGet, "api/stressindicator", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetLatestStressIndicator(ctx context.Context) (*model.StressIndicator, error) {
	var out model.StressIndicator
	if err := s.do(ctx, http.MethodGet, "api/stressindicator/latest", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GenerateMockStressData(ctx context.Context, count int) ([]model.StressIndicator, error) {
	var out []model.StressIndicator
	q := url.Values{"count": {strconv.Itoa(count)}}
	if err := s.do(ctx, http.MethodPost, "api/stressindicator/generate-mock", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateStressIndicator(ctx context.Context, req model.CreateStressIndicatorRequest) (*model.StressIndicator, error) {
	var out model.StressIndicator
	if err := s.do(ctx, http.MethodPost, "api/stressindicator", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommendations

func (s *Service) GetRecommendations(ctx context.Context) ([]model.Content, error) {
	var out []model.Content
	if err := s.do(ctx, http.MethodGet, "api/recommendation", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health metrics

// SubmitHealthMetric posts a device reading. deviceKey is sent as
// X-Device-Key when not empty.
func (s *Service) SubmitHealthMetric(ctx context.Context, req model.HealthMetricRequest, deviceKey string) (*model.HealthMetric, error) {
	body, err := s.codec.Encode(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := s.newRequest(ctx, http.MethodPost, "api/healthmetric/iot", nil, body)
	if err != nil {
		return nil, err
	}
	if deviceKey != "" {
		httpReq.Header.Set("X-Device-Key", deviceKey)
	}

	var out model.HealthMetric
	if err := s.send(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	body, err := s.codec.Encode(in)
	if err != nil {
		return err
	}

	req, err := s.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	err = s.send(req, out)
	if !isUnauthorized(err) || !refreshable(path) {
		return err
	}

	if !s.refresh(ctx) {
		return err
	}

	req, rerr := s.newRequest(ctx, method, path, query, body)
	if rerr != nil {
		return rerr
	}
	return s.send(req, out)
}

// refresh swaps the stored token pair. A rejected refresh clears the session.
func (s *Service) refresh(ctx context.Context) bool {
	refreshToken := s.tokens.RefreshToken()
	if refreshToken == "" {
		return false
	}

	body, err := s.codec.Encode(model.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return false
	}
	req, err := s.newRequest(ctx, http.MethodPost, "api/auth/refresh", nil, body)
	if err != nil {
		return false
	}

	var out model.AuthResponse
	if err := s.send(req, &out); err != nil {
		s.logger.Info("Token refresh failed, clearing session", zap.Error(err))
		if cerr := s.tokens.Clear(); cerr != nil {
			s.logger.Warn("Failed to clear session", zap.Error(cerr))
		}
		return false
	}

	if err := s.tokens.SetTokens(out.Token, out.RefreshToken); err != nil {
		s.logger.Warn("Failed to store refreshed tokens", zap.Error(err))
	}
	return true
}

func (s *Service) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	u := s.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", s.codec.ContentType())
	}
	req.Header.Set("Accept", s.codec.ContentType())
	return req, nil
}

func (s *Service) send(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(data) > 0 {
			_ = s.codec.Decode(bytes.NewReader(data), apiErr)
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return s.codec.Decode(resp.Body, out)
}

// refreshable is false for the anonymous auth endpoints
func refreshable(path string) bool {
	return path == "api/auth/me" || !strings.HasPrefix(path, "api/auth/")
}

func isUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}
