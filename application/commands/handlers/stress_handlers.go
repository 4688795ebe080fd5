package handlers

import (
	"context"
	"time"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	"techknowledgepills/domain/core/entities"

	"go.uber.org/zap"
)

// StressHandlers handles manual stress readings
type StressHandlers struct {
	stressRepo ports.StressIndicatorRepository
	publisher  ports.EventPublisher
	cache      ports.Cache
	logger     *zap.Logger
}

// NewStressHandlers creates the stress command handlers
func NewStressHandlers(
	stressRepo ports.StressIndicatorRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	logger *zap.Logger,
) *StressHandlers {
	return &StressHandlers{
		stressRepo: stressRepo,
		publisher:  publisher,
		cache:      cache,
		logger:     logger,
	}
}

// HandleRecord executes RecordStressIndicatorCommand
func (h *StressHandlers) HandleRecord(ctx context.Context, cmd commands.RecordStressIndicatorCommand) error {
	indicator, err := entities.NewStressIndicator(
		cmd.IndicatorID,
		cmd.UserID,
		cmd.Level,
		cmd.Timestamp,
		cmd.Notes,
		entities.StressSourceManual,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err := h.stressRepo.Save(ctx, indicator); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, indicator)
	if err := h.cache.Delete(ctx, queries.RecommendationsCacheKey(cmd.UserID)); err != nil {
		h.logger.Warn("Failed to invalidate recommendations", zap.String("userID", cmd.UserID), zap.Error(err))
	}
	return nil
}
