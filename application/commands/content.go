package commands

import (
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/utils"
)

// CreateContentCommand adds a knowledge pill. ContentID is chosen by the caller.
type CreateContentCommand struct {
	ContentID string                   `json:"id" validate:"required"`
	UserID    string                   `json:"userId" validate:"required"`
	Title     string                   `json:"title"`
	Type      valueobjects.ContentType `json:"type"`
	Body      string                   `json:"body"`
	VideoURL  string                   `json:"videoUrl"`
	QuizData  string                   `json:"quizData"`
	Tags      []string                 `json:"tags"`
}

func (c CreateContentCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateContentCommand replaces the mutable fields of a pill
type UpdateContentCommand struct {
	ContentID string                   `json:"id" validate:"required"`
	UserID    string                   `json:"userId" validate:"required"`
	Title     string                   `json:"title"`
	Type      valueobjects.ContentType `json:"type"`
	Body      string                   `json:"body"`
	VideoURL  string                   `json:"videoUrl"`
	QuizData  string                   `json:"quizData"`
	Tags      []string                 `json:"tags"`
}

func (c UpdateContentCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteContentCommand removes a pill. Deleting a missing pill succeeds.
type DeleteContentCommand struct {
	ContentID string `json:"id" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

func (c DeleteContentCommand) Validate() error { return utils.ValidateStruct(c) }

// CompleteContentCommand marks a pill as done for a user, with an optional 1-5 rating
type CompleteContentCommand struct {
	InteractionID string `json:"interactionId" validate:"required"`
	UserID        string `json:"userId" validate:"required"`
	ContentID     string `json:"contentId" validate:"required"`
	Rating        *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (c CompleteContentCommand) Validate() error { return utils.ValidateStruct(c) }
