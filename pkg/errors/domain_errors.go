package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Predefined errors. Compare with errors.Is; attach context with WithDetail.
var (
	ErrUserNotFound        = NewNotFoundError("user").WithCode("USER_NOT_FOUND")
	ErrEmailTaken          = NewConflictError("a user with this email already exists").WithCode("EMAIL_TAKEN")
	ErrInvalidCredentials  = NewUnauthorizedError("invalid email or password").WithCode("INVALID_CREDENTIALS")
	ErrInvalidRefreshToken = NewUnauthorizedError("invalid refresh token").WithCode("INVALID_REFRESH_TOKEN")

	ErrContentNotFound     = NewNotFoundError("content").WithCode("CONTENT_NOT_FOUND")
	ErrInvalidContentType  = NewValidationError("content type must be Article(1), Video(2) or Quiz(3)").WithCode("INVALID_CONTENT_TYPE")
	ErrVideoURLRequired    = NewValidationError("video content requires a video url").WithCode("VIDEO_URL_REQUIRED")
	ErrQuizRequired        = NewValidationError("quiz content requires at least one question").WithCode("QUIZ_REQUIRED")
	ErrContentTitleMissing = NewValidationError("title is required").WithCode("CONTENT_TITLE_REQUIRED")

	ErrStressIndicatorNotFound = NewNotFoundError("stress indicator").WithCode("STRESS_INDICATOR_NOT_FOUND")
	ErrInvalidStressLevel      = NewValidationError("stress level must be Low(1), Medium(2), High(3) or Critical(4)").WithCode("INVALID_STRESS_LEVEL")

	ErrHealthMetricNotFound = NewNotFoundError("health metric").WithCode("HEALTH_METRIC_NOT_FOUND")

	ErrCipherNotFound  = NewNotFoundError("cipher").WithCode("CIPHER_NOT_FOUND")
	ErrDuplicateCipher = NewConflictError("a cipher with this key name already exists").WithCode("DUPLICATE_CIPHER_KEY")

	ErrInvalidRating = NewValidationError("rating must be between 1 and 5").WithCode("INVALID_RATING")
)

// ValidationErrors aggregates field-level validation failures
type ValidationErrors struct {
	fields map[string][]string
}

// NewValidationErrors creates an empty collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{fields: make(map[string][]string)}
}

// Add records a message for a field
func (v *ValidationErrors) Add(field, message string) {
	v.fields[field] = append(v.fields[field], message)
}

// AddIf records the message when cond holds
func (v *ValidationErrors) AddIf(cond bool, field, message string) {
	if cond {
		v.Add(field, message)
	}
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.fields) > 0
}

// ToMap returns the messages keyed by field
func (v *ValidationErrors) ToMap() map[string][]string {
	out := make(map[string][]string, len(v.fields))
	for k, msgs := range v.fields {
		out[k] = append([]string(nil), msgs...)
	}
	return out
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, msg := range v.fields[k] {
			parts = append(parts, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when empty, otherwise a validation AppError carrying the fields
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	details := make(map[string]interface{}, len(v.fields))
	for k, msgs := range v.ToMap() {
		details[k] = msgs
	}
	return NewValidationError(v.Error()).WithCode("FIELD_VALIDATION_ERROR").WithDetails(details)
}
