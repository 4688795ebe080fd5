package services

import (
	"context"
	"sort"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/events"
	"techknowledgepills/domain/services"
	pkgerrors "techknowledgepills/pkg/errors"

	"go.uber.org/zap"
)

// StressService generates synthetic stress history for demos
type StressService struct {
	stressRepo ports.StressIndicatorRepository
	generator  *services.MockStressGenerator
	publisher  ports.EventPublisher
	cache      ports.Cache
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewStressService creates a new stress service
func NewStressService(
	stressRepo ports.StressIndicatorRepository,
	generator *services.MockStressGenerator,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *StressService {
	return &StressService{
		stressRepo: stressRepo,
		generator:  generator,
		publisher:  publisher,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// GenerateMock stores count synthetic indicators (clamped) and returns them newest first
func (s *StressService) GenerateMock(ctx context.Context, userID string, count int) ([]queries.StressIndicatorResult, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	count = s.cfg.ClampMockCount(count)

	batch, err := s.generator.Generate(userID, count)
	if err != nil {
		return nil, err
	}
	if err := s.stressRepo.SaveBatch(ctx, batch); err != nil {
		return nil, err
	}

	// one summary event instead of one per indicator
	if err := s.publisher.Publish(ctx, events.NewMockStressGenerated(userID, len(batch), time.Now().UTC())); err != nil {
		s.logger.Warn("Failed to publish mock generation event", zap.String("userID", userID), zap.Error(err))
	}
	for _, ind := range batch {
		ind.MarkEventsAsCommitted()
	}

	if err := s.cache.Delete(ctx, queries.RecommendationsCacheKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate recommendations", zap.String("userID", userID), zap.Error(err))
	}

	s.logger.Info("Generated mock stress data", zap.String("userID", userID), zap.Int("count", len(batch)))

	results := queries.NewStressIndicatorResults(batch)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results, nil
}
