package commands

import (
	"time"

	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/utils"
)

// RecordStressIndicatorCommand stores a self-reported stress reading.
// A zero Timestamp means now.
type RecordStressIndicatorCommand struct {
	IndicatorID string                   `json:"id" validate:"required"`
	UserID      string                   `json:"userId" validate:"required"`
	Level       valueobjects.StressLevel `json:"stressLevel"`
	Timestamp   time.Time                `json:"timestamp"`
	Notes       *string                  `json:"notes" validate:"omitempty,max=1000"`
}

func (c RecordStressIndicatorCommand) Validate() error { return utils.ValidateStruct(c) }
