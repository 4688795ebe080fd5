package validators

import (
	stderrors "errors"
	"strings"
	"testing"

	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/errors"

	"github.com/stretchr/testify/assert"
)

const validQuiz = `{"questions":[{"question":"2+2?","options":["3","4"],"correct":1,"explanation":"math"}]}`

func TestContentValidator(t *testing.T) {
	v := NewContentValidator(nil)

	tests := []struct {
		name    string
		fields  ContentFields
		wantErr error
	}{
		{
			name:   "article ok",
			fields: ContentFields{Title: "Go", Type: valueobjects.ContentTypeArticle, Body: "text"},
		},
		{
			name:    "missing title",
			fields:  ContentFields{Title: "  ", Type: valueobjects.ContentTypeArticle},
			wantErr: errors.ErrContentTitleMissing,
		},
		{
			name:    "bad type",
			fields:  ContentFields{Title: "x", Type: 7},
			wantErr: errors.ErrInvalidContentType,
		},
		{
			name:    "video without url",
			fields:  ContentFields{Title: "x", Type: valueobjects.ContentTypeVideo},
			wantErr: errors.ErrVideoURLRequired,
		},
		{
			name:   "video ok",
			fields: ContentFields{Title: "x", Type: valueobjects.ContentTypeVideo, VideoURL: "https://youtu.be/abc"},
		},
		{
			name:    "quiz without data",
			fields:  ContentFields{Title: "x", Type: valueobjects.ContentTypeQuiz},
			wantErr: errors.ErrQuizRequired,
		},
		{
			name:    "quiz with broken json",
			fields:  ContentFields{Title: "x", Type: valueobjects.ContentTypeQuiz, QuizData: "{"},
			wantErr: errors.ErrQuizRequired,
		},
		{
			name:   "quiz ok",
			fields: ContentFields{Title: "x", Type: valueobjects.ContentTypeQuiz, QuizData: validQuiz},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.fields)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestContentValidatorAggregatesFieldErrors(t *testing.T) {
	v := NewContentValidator(nil)
	err := v.Validate(ContentFields{
		Title:    strings.Repeat("t", 201),
		Type:     valueobjects.ContentTypeArticle,
		VideoURL: "ftp://example.com/x",
		Tags:     []string{"ok", strings.Repeat("x", 60)},
	})

	assert.True(t, errors.IsValidation(err))
	details := errors.GetAppError(err).Details
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "videoUrl")
	assert.Contains(t, details, "tags")
}
