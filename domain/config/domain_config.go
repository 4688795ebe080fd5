package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Content constraints
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxBodyLength        int
	MaxTags              int
	MaxTagLength         int
	MaxQuizQuestions     int

	// Recommendations
	MaxRecommendations int

	// Mock stress generation
	DefaultMockCount int
	MaxMockCount     int
	// Probability that a generated indicator carries a note
	MockNoteProbability float64

	// Ratings
	MinRating int
	MaxRating int

	// Cipher constraints
	MaxKeyNameLength int
	MaxCipherValue   int

	// Health metrics
	DefaultDeviceType string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTitleLength:       200,
		MaxDescriptionLength: 1000,
		MaxBodyLength:        50000,
		MaxTags:              20,
		MaxTagLength:         50,
		MaxQuizQuestions:     50,

		MaxRecommendations: 10,

		DefaultMockCount:    30,
		MaxMockCount:        365,
		MockNoteProbability: 0.3,

		MinRating: 1,
		MaxRating: 5,

		MaxKeyNameLength: 100,
		MaxCipherValue:   4096,

		DefaultDeviceType: "unknown",
	}
}

// ClampMockCount maps a requested count into the accepted range.
// Non-positive values mean "use the default".
func (c *DomainConfig) ClampMockCount(count int) int {
	if count <= 0 {
		return c.DefaultMockCount
	}
	if count > c.MaxMockCount {
		return c.MaxMockCount
	}
	return count
}
