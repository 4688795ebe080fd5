// Package model holds the client-side shapes of API resources.
package model

import (
	"strings"
	"time"

	"techknowledgepills/domain/core/valueobjects"
)

// ContentType and StressLevel share the server's wire encoding:
// 1-based integers out, integers or names in.
type (
	ContentType = valueobjects.ContentType
	StressLevel = valueobjects.StressLevel
)

const (
	ContentTypeArticle = valueobjects.ContentTypeArticle
	ContentTypeVideo   = valueobjects.ContentTypeVideo
	ContentTypeQuiz    = valueobjects.ContentTypeQuiz

	StressLevelLow      = valueobjects.StressLevelLow
	StressLevelMedium   = valueobjects.StressLevelMedium
	StressLevelHigh     = valueobjects.StressLevelHigh
	StressLevelCritical = valueobjects.StressLevelCritical
)

// RegisterRequest creates an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
}

// User is the signed-in account
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

// Content is a knowledge pill
type Content struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Type      ContentType `json:"type"`
	Body      string      `json:"body"`
	VideoURL  string      `json:"videoUrl,omitempty"`
	QuizData  string      `json:"quizData,omitempty"`
	Tags      string      `json:"tags"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TagList splits the comma-separated tags
func (c Content) TagList() []string {
	var out []string
	for _, t := range strings.Split(c.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CompleteRequest marks a pill as done
type CompleteRequest struct {
	Rating *int `json:"rating,omitempty"`
}

// StressIndicator is one stress reading
type StressIndicator struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	StressLevel StressLevel `json:"stressLevel"`
	Timestamp   time.Time   `json:"timestamp"`
	Notes       *string     `json:"notes"`
	Source      string      `json:"source,omitempty"`
}

// CreateStressIndicatorRequest records a manual reading
type CreateStressIndicatorRequest struct {
	StressLevel StressLevel `json:"stressLevel"`
	Timestamp   *time.Time  `json:"timestamp,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// HealthMetricRequest is what a wearable posts to the IoT endpoint
type HealthMetricRequest struct {
	UserID               string     `json:"userId"`
	Timestamp            *time.Time `json:"timestamp,omitempty"`
	HeartRate            *int       `json:"heartRate,omitempty"`
	Steps                *int       `json:"steps,omitempty"`
	SleepHours           *float64   `json:"sleepHours,omitempty"`
	HeartRateVariability *int       `json:"heartRateVariability,omitempty"`
	BodyTemperature      *float64   `json:"bodyTemperature,omitempty"`
	DeviceID             *string    `json:"deviceId,omitempty"`
	DeviceType           *string    `json:"deviceType,omitempty"`
}

// HealthMetric is a stored reading
type HealthMetric struct {
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
