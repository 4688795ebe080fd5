package valueobjects

import (
	"encoding/json"
	"fmt"
)

// StressLevel is the self-reported or derived stress of a user.
// Values are 1-based on the wire.
type StressLevel int

const (
	StressLevelLow StressLevel = iota + 1
	StressLevelMedium
	StressLevelHigh
	StressLevelCritical
)

var stressLevelNames = []string{"Low", "Medium", "High", "Critical"}

// ParseStressLevel accepts "3" as well as "High".
func ParseStressLevel(s string) (StressLevel, error) {
	n, err := parseEnum(s, stressLevelNames)
	if err != nil {
		return 0, fmt.Errorf("invalid stress level: %w", err)
	}
	return StressLevel(n), nil
}

// IsValid reports whether the level is one of the four known levels
func (l StressLevel) IsValid() bool {
	return l >= StressLevelLow && l <= StressLevelCritical
}

// IsElevated is true for High and Critical
func (l StressLevel) IsElevated() bool {
	return l >= StressLevelHigh
}

func (l StressLevel) String() string {
	if !l.IsValid() {
		return fmt.Sprintf("StressLevel(%d)", int(l))
	}
	return stressLevelNames[l-1]
}

// MarshalJSON encodes the level as its ordinal
func (l StressLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(l))
}

// UnmarshalJSON accepts the ordinal or the name
func (l *StressLevel) UnmarshalJSON(data []byte) error {
	n, err := unmarshalEnum(data, stressLevelNames)
	if err != nil {
		return fmt.Errorf("invalid stress level: %w", err)
	}
	*l = StressLevel(n)
	return nil
}
