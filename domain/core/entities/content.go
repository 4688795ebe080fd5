package entities

import (
	"strings"
	"time"

	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/domain/core/validators"
)

// Content is a knowledge pill: an article, a video or a quiz
type Content struct {
	ID        string
	Title     string
	Type      valueobjects.ContentType
	Body      string
	VideoURL  string
	QuizData  string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentInput carries the mutable fields of a pill
type ContentInput struct {
	Title    string
	Type     valueobjects.ContentType
	Body     string
	VideoURL string
	QuizData string
	Tags     []string
}

// NewContent validates input and builds a pill
func NewContent(id string, in ContentInput, now time.Time, cfg *config.DomainConfig) (*Content, error) {
	in = normalizeContentInput(in)
	if err := validators.NewContentValidator(cfg).Validate(validators.ContentFields{
		Title:    in.Title,
		Type:     in.Type,
		Body:     in.Body,
		VideoURL: in.VideoURL,
		QuizData: in.QuizData,
		Tags:     in.Tags,
	}); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Content{
		ID:        id,
		Title:     in.Title,
		Type:      in.Type,
		Body:      in.Body,
		VideoURL:  in.VideoURL,
		QuizData:  in.QuizData,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the mutable fields. CreatedAt is kept.
func (c *Content) Update(in ContentInput, now time.Time, cfg *config.DomainConfig) error {
	in = normalizeContentInput(in)
	if err := validators.NewContentValidator(cfg).Validate(validators.ContentFields{
		Title:    in.Title,
		Type:     in.Type,
		Body:     in.Body,
		VideoURL: in.VideoURL,
		QuizData: in.QuizData,
		Tags:     in.Tags,
	}); err != nil {
		return err
	}

	c.Title = in.Title
	c.Type = in.Type
	c.Body = in.Body
	c.VideoURL = in.VideoURL
	c.QuizData = in.QuizData
	c.Tags = in.Tags
	c.UpdatedAt = now.UTC()
	return nil
}

// Quiz decodes QuizData. Only meaningful for quiz pills.
func (c *Content) Quiz() (valueobjects.Quiz, error) {
	return valueobjects.ParseQuiz(c.QuizData)
}

// TagString joins tags the way clients expect them on the wire
func (c *Content) TagString() string {
	return strings.Join(c.Tags, ",")
}

// SplitTags parses a comma-separated tag list, dropping blanks
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func normalizeContentInput(in ContentInput) ContentInput {
	in.Title = strings.TrimSpace(in.Title)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	in.QuizData = strings.TrimSpace(in.QuizData)
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	in.Tags = tags
	return in
}
