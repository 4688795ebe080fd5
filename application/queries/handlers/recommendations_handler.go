package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/services"
	pkgerrors "techknowledgepills/pkg/errors"

	"go.uber.org/zap"
)

// RecommendationsHandler picks pills for a user's current stress level
type RecommendationsHandler struct {
	contentRepo     ports.ContentRepository
	stressRepo      ports.StressIndicatorRepository
	interactionRepo ports.InteractionRepository
	policy          *services.RecommendationPolicy
	logger          *zap.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(
	contentRepo ports.ContentRepository,
	stressRepo ports.StressIndicatorRepository,
	interactionRepo ports.InteractionRepository,
	policy *services.RecommendationPolicy,
	logger *zap.Logger,
) *RecommendationsHandler {
	return &RecommendationsHandler{
		contentRepo:     contentRepo,
		stressRepo:      stressRepo,
		interactionRepo: interactionRepo,
		policy:          policy,
		logger:          logger,
	}
}

// Handle executes RecommendationsQuery. A user without any stress reading is
// treated as Medium.
func (h *RecommendationsHandler) Handle(ctx context.Context, q queries.RecommendationsQuery) ([]queries.ContentResult, error) {
	var latest *entities.StressIndicator
	indicator, err := h.stressRepo.LatestByUser(ctx, q.UserID)
	switch {
	case err == nil:
		latest = indicator
	case pkgerrors.IsNotFound(err):
	default:
		return nil, err
	}

	completed, err := h.interactionRepo.CompletedContentIDs(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	all, err := h.contentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	level := services.EffectiveLevel(latest)
	picked := h.policy.Recommend(all, completed, level)

	h.logger.Debug("Recommendations computed",
		zap.String("userID", q.UserID),
		zap.String("level", level.String()),
		zap.Int("candidates", len(all)),
		zap.Int("completed", len(completed)),
		zap.Int("picked", len(picked)),
	)
	return queries.NewContentResults(picked), nil
}
