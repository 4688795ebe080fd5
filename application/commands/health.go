package commands

import (
	"time"

	"techknowledgepills/pkg/utils"
)

// IngestHealthMetricCommand stores one device reading and derives a stress indicator from it
type IngestHealthMetricCommand struct {
	MetricID             string    `json:"id" validate:"required"`
	UserID               string    `json:"userId" validate:"required"`
	Timestamp            time.Time `json:"timestamp"`
	HeartRate            *int      `json:"heartRate"`
	Steps                *int      `json:"steps"`
	SleepHours           *float64  `json:"sleepHours"`
	HeartRateVariability *int      `json:"heartRateVariability"`
	BodyTemperature      *float64  `json:"bodyTemperature"`
	DeviceID             *string   `json:"deviceId"`
	DeviceType           string    `json:"deviceType" validate:"max=50"`
}

func (c IngestHealthMetricCommand) Validate() error { return utils.ValidateStruct(c) }
