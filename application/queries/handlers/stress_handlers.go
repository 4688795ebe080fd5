package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
)

// StressQueryHandlers serves stress history reads
type StressQueryHandlers struct {
	stressRepo ports.StressIndicatorRepository
}

func NewStressQueryHandlers(stressRepo ports.StressIndicatorRepository) *StressQueryHandlers {
	return &StressQueryHandlers{stressRepo: stressRepo}
}

func (h *StressQueryHandlers) HandleList(ctx context.Context, q queries.ListStressIndicatorsQuery) ([]queries.StressIndicatorResult, error) {
	list, err := h.stressRepo.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return queries.NewStressIndicatorResults(list), nil
}

func (h *StressQueryHandlers) HandleLatest(ctx context.Context, q queries.LatestStressIndicatorQuery) (*queries.StressIndicatorResult, error) {
	latest, err := h.stressRepo.LatestByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	result := queries.NewStressIndicatorResult(latest)
	return &result, nil
}
