package entities

import (
	"strings"
	"time"

	"techknowledgepills/domain/events"
	pkgerrors "techknowledgepills/pkg/errors"
)

// HealthMetric is one reading pushed by a wearable or sensor. Every reading is optional.
type HealthMetric struct {
	ID                   string
	UserID               string
	Timestamp            time.Time
	HeartRate            *int
	Steps                *int
	SleepHours           *float64
	HeartRateVariability *int
	BodyTemperature      *float64
	DeviceID             *string
	DeviceType           string

	events []events.DomainEvent
}

// NewHealthMetric fills defaults and records a HealthMetricIngested event
func NewHealthMetric(m HealthMetric, defaultDeviceType string, now time.Time) (*HealthMetric, error) {
	if strings.TrimSpace(m.UserID) == "" {
		return nil, pkgerrors.NewValidationError("userId is required").WithCode("USER_ID_REQUIRED")
	}
	v := pkgerrors.NewValidationErrors()
	v.AddIf(m.HeartRate != nil && (*m.HeartRate <= 0 || *m.HeartRate > 300), "heartRate", "must be between 1 and 300")
	v.AddIf(m.Steps != nil && *m.Steps < 0, "steps", "cannot be negative")
	v.AddIf(m.SleepHours != nil && (*m.SleepHours < 0 || *m.SleepHours > 24), "sleepHours", "must be between 0 and 24")
	v.AddIf(m.HeartRateVariability != nil && *m.HeartRateVariability < 0, "heartRateVariability", "cannot be negative")
	v.AddIf(m.BodyTemperature != nil && (*m.BodyTemperature < 25 || *m.BodyTemperature > 45), "bodyTemperature", "must be between 25 and 45")
	if err := v.Err(); err != nil {
		return nil, err
	}

	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	m.Timestamp = m.Timestamp.UTC()
	if strings.TrimSpace(m.DeviceType) == "" {
		m.DeviceType = defaultDeviceType
	}
	m.events = []events.DomainEvent{events.NewHealthMetricIngested(m.ID, m.UserID, m.DeviceType, now.UTC())}
	return &m, nil
}

// GetUncommittedEvents returns events raised since the last commit
func (m *HealthMetric) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears pending events
func (m *HealthMetric) MarkEventsAsCommitted() {
	m.events = nil
}
