package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"techknowledgepills/application/services"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	authService *services.AuthService
	errors      *pkgerrors.ErrorHandler
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		errors:      errs,
		logger:      logger,
	}
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	profile, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}
