package queries

import (
	"fmt"
	"time"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	pkgerrors "techknowledgepills/pkg/errors"
)

// ContentResult is the wire shape of a knowledge pill. Tags are comma-separated.
type ContentResult struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Type      valueobjects.ContentType `json:"type"`
	Body      string                   `json:"body"`
	VideoURL  string                   `json:"videoUrl,omitempty"`
	QuizData  string                   `json:"quizData,omitempty"`
	Tags      string                   `json:"tags"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// NewContentResult maps a pill to its wire shape
func NewContentResult(c *entities.Content) ContentResult {
	return ContentResult{
		ID:        c.ID,
		Title:     c.Title,
		Type:      c.Type,
		Body:      c.Body,
		VideoURL:  c.VideoURL,
		QuizData:  c.QuizData,
		Tags:      c.TagString(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewContentResults maps a list, never returning nil
func NewContentResults(list []*entities.Content) []ContentResult {
	out := make([]ContentResult, 0, len(list))
	for _, c := range list {
		out = append(out, NewContentResult(c))
	}
	return out
}

// ListContentQuery lists every pill, newest first
type ListContentQuery struct{}

func (q ListContentQuery) Validate() error { return nil }

func (q ListContentQuery) CacheKey() string { return "content:all" }

// GetContentQuery fetches one pill
type GetContentQuery struct {
	ContentID string
}

func (q GetContentQuery) Validate() error {
	if q.ContentID == "" {
		return pkgerrors.NewValidationError("content id is required")
	}
	return nil
}

// ListContentByTypeQuery lists pills of one type, newest first
type ListContentByTypeQuery struct {
	Type valueobjects.ContentType
}

func (q ListContentByTypeQuery) Validate() error {
	if !q.Type.IsValid() {
		return pkgerrors.ErrInvalidContentType
	}
	return nil
}

func (q ListContentByTypeQuery) CacheKey() string { return fmt.Sprintf("content:type:%d", q.Type) }
