package entities

import (
	"time"

	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/domain/events"
	pkgerrors "techknowledgepills/pkg/errors"
)

// StressSource records where an indicator came from
type StressSource string

const (
	StressSourceManual       StressSource = "manual"
	StressSourceMock         StressSource = "mock"
	StressSourceHealthMetric StressSource = "health_metric"
)

// StressIndicator is one stress reading for a user
type StressIndicator struct {
	ID        string
	UserID    string
	Level     valueobjects.StressLevel
	Timestamp time.Time
	Notes     *string
	Source    StressSource

	events []events.DomainEvent
}

// NewStressIndicator validates and builds an indicator. A zero timestamp means now.
func NewStressIndicator(id, userID string, level valueobjects.StressLevel, ts time.Time, notes *string, source StressSource, now time.Time) (*StressIndicator, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	if !level.IsValid() {
		return nil, pkgerrors.ErrInvalidStressLevel
	}
	if ts.IsZero() {
		ts = now
	}
	if notes != nil && *notes == "" {
		notes = nil
	}
	if source == "" {
		source = StressSourceManual
	}

	s := &StressIndicator{
		ID:        id,
		UserID:    userID,
		Level:     level,
		Timestamp: ts.UTC(),
		Notes:     notes,
		Source:    source,
	}
	s.events = append(s.events, events.NewStressRecorded(id, userID, level, string(source), now.UTC()))
	return s, nil
}

// GetUncommittedEvents returns events raised since the last commit
func (s *StressIndicator) GetUncommittedEvents() []events.DomainEvent {
	return s.events
}

// MarkEventsAsCommitted clears pending events
func (s *StressIndicator) MarkEventsAsCommitted() {
	s.events = nil
}
