package handlers

import (
	"context"
	"time"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HealthHandlers ingests device readings
type HealthHandlers struct {
	healthRepo ports.HealthMetricRepository
	stressRepo ports.StressIndicatorRepository
	analyzer   *services.HealthAnalyzer
	publisher  ports.EventPublisher
	cache      ports.Cache
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewHealthHandlers creates the health metric command handlers
func NewHealthHandlers(
	healthRepo ports.HealthMetricRepository,
	stressRepo ports.StressIndicatorRepository,
	analyzer *services.HealthAnalyzer,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *HealthHandlers {
	return &HealthHandlers{
		healthRepo: healthRepo,
		stressRepo: stressRepo,
		analyzer:   analyzer,
		publisher:  publisher,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleIngest executes IngestHealthMetricCommand. The metric is stored first;
// deriving the stress indicator is best effort.
func (h *HealthHandlers) HandleIngest(ctx context.Context, cmd commands.IngestHealthMetricCommand) error {
	now := time.Now()
	metric, err := entities.NewHealthMetric(entities.HealthMetric{
		ID:                   cmd.MetricID,
		UserID:               cmd.UserID,
		Timestamp:            cmd.Timestamp,
		HeartRate:            cmd.HeartRate,
		Steps:                cmd.Steps,
		SleepHours:           cmd.SleepHours,
		HeartRateVariability: cmd.HeartRateVariability,
		BodyTemperature:      cmd.BodyTemperature,
		DeviceID:             cmd.DeviceID,
		DeviceType:           cmd.DeviceType,
	}, h.cfg.DefaultDeviceType, now)
	if err != nil {
		return err
	}

	if err := h.healthRepo.Save(ctx, metric); err != nil {
		return err
	}
	publishEvents(ctx, h.publisher, h.logger, metric)

	if err := h.deriveStress(ctx, metric, now); err != nil {
		h.logger.Warn("Failed to derive stress indicator from health metric",
			zap.String("metricID", metric.ID),
			zap.String("userID", metric.UserID),
			zap.Error(err),
		)
	}
	return nil
}

func (h *HealthHandlers) deriveStress(ctx context.Context, metric *entities.HealthMetric, now time.Time) error {
	level, note := h.analyzer.Analyze(metric)
	indicator, err := entities.NewStressIndicator(
		uuid.NewString(),
		metric.UserID,
		level,
		metric.Timestamp,
		&note,
		entities.StressSourceHealthMetric,
		now,
	)
	if err != nil {
		return err
	}
	if err := h.stressRepo.Save(ctx, indicator); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, indicator)
	return h.cache.Delete(ctx, queries.RecommendationsCacheKey(metric.UserID))
}
