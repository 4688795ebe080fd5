package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
)

// HealthQueryHandlers serves device reading history
type HealthQueryHandlers struct {
	healthRepo ports.HealthMetricRepository
}

func NewHealthQueryHandlers(healthRepo ports.HealthMetricRepository) *HealthQueryHandlers {
	return &HealthQueryHandlers{healthRepo: healthRepo}
}

func (h *HealthQueryHandlers) HandleList(ctx context.Context, q queries.ListHealthMetricsQuery) ([]queries.HealthMetricResult, error) {
	list, err := h.healthRepo.ListByUser(ctx, q.UserID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	out := make([]queries.HealthMetricResult, 0, len(list))
	for _, m := range list {
		out = append(out, queries.NewHealthMetricResult(m))
	}
	return out, nil
}

func (h *HealthQueryHandlers) HandleLatest(ctx context.Context, q queries.LatestHealthMetricQuery) (*queries.HealthMetricResult, error) {
	latest, err := h.healthRepo.LatestByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	result := queries.NewHealthMetricResult(latest)
	return &result, nil
}
