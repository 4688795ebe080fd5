package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"techknowledgepills/pkg/auth"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// TokenParser validates access tokens
type TokenParser interface {
	ParseAccess(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer access token and stores the caller in
// the request context.
func Authenticate(tokens TokenParser, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("missing authentication token"))
				return
			}

			claims, err := tokens.ParseAccess(token)
			if err != nil {
				logger.Debug("Invalid token",
					zap.Error(err),
					zap.String("ip", ClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid or expired token").WithCode("INVALID_TOKEN"))
				return
			}

			ctx := common.WithUserID(r.Context(), claims.Subject)
			ctx = common.WithEmail(ctx, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DeviceKey guards device ingestion. An empty expected key disables the check.
func DeviceKey(expected string, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("X-Device-Key") != expected {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid device key").WithCode("INVALID_DEVICE_KEY"))
				return
			}
			next.ServeHTTP(w, r.WithContext(common.WithDeviceAuthenticated(r.Context())))
		})
	}
}

// KeyFunc picks the bucket a request is counted against
type KeyFunc func(r *http.Request) string

// ByIP counts requests per client address
func ByIP(r *http.Request) string {
	return ClientIP(r)
}

// ByUser counts requests per authenticated user, falling back to the address
func ByUser(r *http.Request) string {
	if userID, ok := common.GetUserID(r.Context()); ok {
		return userID
	}
	return ClientIP(r)
}

// RateLimit rejects requests over the limiter's budget with 429.
// Limiter failures let the request through.
func RateLimit(limiter auth.RateLimiter, key KeyFunc, limitErr error, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			allowed, err := limiter.Allow(r.Context(), key(r))
			if err != nil {
				logger.Warn("Rate limiter error", zap.Error(err))
			}
			if !allowed {
				errs.Handle(w, r, limitErr)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ClientIP extracts the client IP address
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
