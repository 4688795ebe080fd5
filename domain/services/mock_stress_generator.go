package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"

	"github.com/google/uuid"
)

// MockStressGenerator produces a synthetic history of daily stress readings,
// skewed towards High in the afternoon.
type MockStressGenerator struct {
	cfg *config.DomainConfig
	rng *rand.Rand
	now func() time.Time
}

// NewMockStressGenerator creates a generator seeded from the runtime
func NewMockStressGenerator(cfg *config.DomainConfig) *MockStressGenerator {
	return &MockStressGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
}

// NewSeededMockStressGenerator creates a deterministic generator
func NewSeededMockStressGenerator(cfg *config.DomainConfig, seed uint64, now func() time.Time) *MockStressGenerator {
	return &MockStressGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

// Generate returns count indicators (clamped to the configured range) starting
// count days ago, one per day.
func (g *MockStressGenerator) Generate(userID string, count int) ([]*entities.StressIndicator, error) {
	count = g.cfg.ClampMockCount(count)
	now := g.now().UTC()
	base := now.AddDate(0, 0, -count)

	out := make([]*entities.StressIndicator, 0, count)
	for i := 0; i < count; i++ {
		day := base.AddDate(0, 0, i)

		level := valueobjects.StressLevel(g.rng.IntN(4) + 1)
		if h := day.Hour(); h >= 14 && h <= 18 {
			if level < valueobjects.StressLevelHigh && g.rng.Float64() > 0.5 {
				level = valueobjects.StressLevelHigh
			}
		}

		ts := day.Add(time.Duration(g.rng.IntN(24)) * time.Hour)

		var notes *string
		if g.rng.Float64() < g.cfg.MockNoteProbability {
			n := fmt.Sprintf("Mock stress indicator %d", i+1)
			notes = &n
		}

		s, err := entities.NewStressIndicator(uuid.NewString(), userID, level, ts, notes, entities.StressSourceMock, now)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
