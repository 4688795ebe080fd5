package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppErrorIs(t *testing.T) {
	t.Run("matches predefined error through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ErrContentNotFound.WithDetail("id", "abc"))
		assert.True(t, stderrors.Is(err, ErrContentNotFound))
		assert.False(t, stderrors.Is(err, ErrCipherNotFound))
		assert.True(t, IsNotFound(err))
	})

	t.Run("does not mutate predefined errors", func(t *testing.T) {
		_ = ErrEmailTaken.WithDetail("email", "a@b.c")
		assert.Empty(t, ErrEmailTaken.Details)

		withCause := ErrEmailTaken.WithCause(stderrors.New("duplicate key"))
		assert.Nil(t, ErrEmailTaken.Cause)
		assert.ErrorIs(t, withCause, ErrEmailTaken)
	})

	t.Run("maps infrastructure failures to gateway statuses", func(t *testing.T) {
		ext := NewExternalError("eventbridge", stderrors.New("throttled"))
		assert.Equal(t, http.StatusBadGateway, ext.HTTPStatus)
		assert.True(t, IsType(ext, ErrorTypeExternal))
		assert.Contains(t, ext.Error(), "throttled")

		unavailable := NewUnavailableError("storage")
		assert.Equal(t, http.StatusServiceUnavailable, unavailable.HTTPStatus)
		assert.Equal(t, "service 'storage' is unavailable", unavailable.Message)
	})
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.NoError(t, v.Err())

	v.Add("title", "is required")
	v.AddIf(true, "type", "is invalid")
	v.AddIf(false, "tags", "never")

	err := v.Err()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "validation failed: title: is required; type: is invalid", v.Error())
	assert.Contains(t, GetAppError(err).Details, "title")
	assert.NotContains(t, GetAppError(err).Details, "tags")
}

func TestErrorHandler(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("maps AppError to its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/content/1", nil)
		h.Handle(rec, req, ErrContentNotFound)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NOT_FOUND", body.Error)
		assert.Equal(t, "CONTENT_NOT_FOUND", body.Code)
		assert.Equal(t, "content not found", body.Message)
	})

	t.Run("hides unknown errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		h.Handle(rec, req, stderrors.New("connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("recovers panics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		h.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		})).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
