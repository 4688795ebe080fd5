package events

import (
	"time"

	"techknowledgepills/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregateId"`
	EventType   string    `json:"eventType"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	TypeUserRegistered       = "user.registered"
	TypeStressRecorded       = "stress.recorded"
	TypeHealthMetricIngested = "health_metric.ingested"
	TypeContentCompleted     = "content.completed"
	TypeMockStressGenerated  = "stress.mock_generated"
)

func newBase(aggregateID, eventType string, ts time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   ts,
		Version:     1,
	}
}

// UserRegistered is raised when an account is created
type UserRegistered struct {
	BaseEvent
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// NewUserRegistered creates a UserRegistered event
func NewUserRegistered(userID, email string, ts time.Time) UserRegistered {
	return UserRegistered{
		BaseEvent: newBase(userID, TypeUserRegistered, ts),
		UserID:    userID,
		Email:     email,
	}
}

// StressRecorded is raised for every stored stress indicator
type StressRecorded struct {
	BaseEvent
	UserID string                   `json:"userId"`
	Level  valueobjects.StressLevel `json:"level"`
	Source string                   `json:"source"`
}

// NewStressRecorded creates a StressRecorded event
func NewStressRecorded(indicatorID, userID string, level valueobjects.StressLevel, source string, ts time.Time) StressRecorded {
	return StressRecorded{
		BaseEvent: newBase(indicatorID, TypeStressRecorded, ts),
		UserID:    userID,
		Level:     level,
		Source:    source,
	}
}

// MockStressGenerated summarises a batch of synthetic indicators
type MockStressGenerated struct {
	BaseEvent
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

// NewMockStressGenerated creates a MockStressGenerated event
func NewMockStressGenerated(userID string, count int, ts time.Time) MockStressGenerated {
	return MockStressGenerated{
		BaseEvent: newBase(userID, TypeMockStressGenerated, ts),
		UserID:    userID,
		Count:     count,
	}
}

// HealthMetricIngested is raised when a device reading is stored
type HealthMetricIngested struct {
	BaseEvent
	UserID     string `json:"userId"`
	DeviceType string `json:"deviceType"`
}

// NewHealthMetricIngested creates a HealthMetricIngested event
func NewHealthMetricIngested(metricID, userID, deviceType string, ts time.Time) HealthMetricIngested {
	return HealthMetricIngested{
		BaseEvent:  newBase(metricID, TypeHealthMetricIngested, ts),
		UserID:     userID,
		DeviceType: deviceType,
	}
}

// ContentCompleted is raised when a user finishes a pill
type ContentCompleted struct {
	BaseEvent
	UserID    string `json:"userId"`
	ContentID string `json:"contentId"`
	Rating    *int   `json:"rating,omitempty"`
}

// NewContentCompleted creates a ContentCompleted event
func NewContentCompleted(interactionID, userID, contentID string, rating *int, ts time.Time) ContentCompleted {
	return ContentCompleted{
		BaseEvent: newBase(interactionID, TypeContentCompleted, ts),
		UserID:    userID,
		ContentID: contentID,
		Rating:    rating,
	}
}
