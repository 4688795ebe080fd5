package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyEmail     ContextKey = "email"
	ContextKeyDeviceKey ContextKey = "device_key"
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

// WithEmail adds the authenticated email to context
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyEmail, email)
}

// WithDeviceAuthenticated marks a request that presented a valid device key
func WithDeviceAuthenticated(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyDeviceKey, true)
}

// IsDeviceAuthenticated reports whether the device key check passed
func IsDeviceAuthenticated(ctx context.Context) bool {
	ok, _ := ctx.Value(ContextKeyDeviceKey).(bool)
	return ok
}
