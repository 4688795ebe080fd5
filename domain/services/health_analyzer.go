package services

import (
	"fmt"
	"strconv"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
)

// HealthAnalyzer derives a stress level from wearable readings.
// Only readings that are present contribute to the score.
type HealthAnalyzer struct{}

// NewHealthAnalyzer creates an analyzer
func NewHealthAnalyzer() *HealthAnalyzer {
	return &HealthAnalyzer{}
}

// Score returns the raw stress score for a reading
func (a *HealthAnalyzer) Score(m *entities.HealthMetric) int {
	score := 0

	if m.HeartRate != nil {
		hr := *m.HeartRate
		switch {
		case hr < 60:
			score++
		case hr > 100:
			score += 2
		}
	}

	if m.SleepHours != nil {
		sleep := *m.SleepHours
		switch {
		case sleep < 6:
			score += 2
		case sleep < 7:
			score++
		case sleep > 9:
			score++
		}
	}

	if m.HeartRateVariability != nil {
		hrv := *m.HeartRateVariability
		switch {
		case hrv < 20:
			score += 3
		case hrv < 30:
			score += 2
		case hrv < 40:
			score++
		}
	}

	if m.BodyTemperature != nil {
		if t := *m.BodyTemperature; t < 36.0 || t > 37.5 {
			score++
		}
	}

	if m.Steps != nil && *m.Steps < 3000 {
		score++
	}

	return score
}

// LevelForScore maps a score onto the four stress levels
func LevelForScore(score int) valueobjects.StressLevel {
	switch {
	case score <= 1:
		return valueobjects.StressLevelLow
	case score <= 3:
		return valueobjects.StressLevelMedium
	case score <= 5:
		return valueobjects.StressLevelHigh
	default:
		return valueobjects.StressLevelCritical
	}
}

// Analyze returns the level and the note attached to the derived indicator
func (a *HealthAnalyzer) Analyze(m *entities.HealthMetric) (valueobjects.StressLevel, string) {
	level := LevelForScore(a.Score(m))
	note := fmt.Sprintf("Auto-generated from health metrics: HR=%s, Sleep=%sh, HRV=%sms",
		formatInt(m.HeartRate), formatFloat(m.SleepHours), formatInt(m.HeartRateVariability))
	return level, note
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
