package queries

import (
	"time"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	pkgerrors "techknowledgepills/pkg/errors"
)

// StressIndicatorResult is the wire shape of a stress reading
type StressIndicatorResult struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"userId"`
	StressLevel valueobjects.StressLevel `json:"stressLevel"`
	Timestamp   time.Time                `json:"timestamp"`
	Notes       *string                  `json:"notes"`
	Source      string                   `json:"source,omitempty"`
}

func NewStressIndicatorResult(s *entities.StressIndicator) StressIndicatorResult {
	return StressIndicatorResult{
		ID:          s.ID,
		UserID:      s.UserID,
		StressLevel: s.Level,
		Timestamp:   s.Timestamp,
		Notes:       s.Notes,
		Source:      string(s.Source),
	}
}

func NewStressIndicatorResults(list []*entities.StressIndicator) []StressIndicatorResult {
	out := make([]StressIndicatorResult, 0, len(list))
	for _, s := range list {
		out = append(out, NewStressIndicatorResult(s))
	}
	return out
}

// ListStressIndicatorsQuery lists a user's readings, newest first
type ListStressIndicatorsQuery struct {
	UserID string
}

func (q ListStressIndicatorsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// LatestStressIndicatorQuery fetches the newest reading; not found when there is none
type LatestStressIndicatorQuery struct {
	UserID string
}

func (q LatestStressIndicatorQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}
