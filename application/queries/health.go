package queries

import (
	"time"

	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
)

// HealthMetricResult is the wire shape of a device reading
type HealthMetricResult struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Timestamp            time.Time `json:"timestamp"`
	HeartRate            *int      `json:"heartRate"`
	Steps                *int      `json:"steps"`
	SleepHours           *float64  `json:"sleepHours"`
	HeartRateVariability *int      `json:"heartRateVariability"`
	BodyTemperature      *float64  `json:"bodyTemperature"`
	DeviceID             *string   `json:"deviceId"`
	DeviceType           string    `json:"deviceType"`
}

func NewHealthMetricResult(m *entities.HealthMetric) HealthMetricResult {
	return HealthMetricResult{
		ID:                   m.ID,
		UserID:               m.UserID,
		Timestamp:            m.Timestamp,
		HeartRate:            m.HeartRate,
		Steps:                m.Steps,
		SleepHours:           m.SleepHours,
		HeartRateVariability: m.HeartRateVariability,
		BodyTemperature:      m.BodyTemperature,
		DeviceID:             m.DeviceID,
		DeviceType:           m.DeviceType,
	}
}

// ListHealthMetricsQuery lists readings newest first within an optional inclusive window
type ListHealthMetricsQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

func (q ListHealthMetricsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return pkgerrors.NewValidationError("startDate must not be after endDate").WithCode("INVALID_DATE_RANGE")
	}
	return nil
}

// LatestHealthMetricQuery fetches the newest reading
type LatestHealthMetricQuery struct {
	UserID string
}

func (q LatestHealthMetricQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}
