package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// RecommendationHandler serves stress-aware recommendations
type RecommendationHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		queryBus: queryBus,
		errors:   errs,
		logger:   logger,
	}
}

// GetRecommendations handles GET /api/recommendation
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.RecommendationsQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
