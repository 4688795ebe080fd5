package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/application/services"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// StressHandler handles stress indicator requests
type StressHandler struct {
	commandBus    *bus.CommandBus
	queryBus      *querybus.QueryBus
	stressService *services.StressService
	errors        *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewStressHandler creates a new stress handler
func NewStressHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	stressService *services.StressService,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *StressHandler {
	return &StressHandler{
		commandBus:    commandBus,
		queryBus:      queryBus,
		stressService: stressService,
		errors:        errs,
		logger:        logger,
	}
}

// StressRequest is the body of a manual reading. Extra fields are ignored.
type StressRequest struct {
	StressLevel valueobjects.StressLevel `json:"stressLevel"`
	Timestamp   *time.Time               `json:"timestamp"`
	Notes       *string                  `json:"notes"`
}

// ListIndicators handles GET /api/stressindicator
func (h *StressHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListStressIndicatorsQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Latest handles GET /api/stressindicator/latest
func (h *StressHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.LatestStressIndicatorQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GenerateMock handles POST /api/stressindicator/generate-mock?count=N.
// A missing count uses the default; out of range values are clamped.
func (h *StressHandler) GenerateMock(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("count must be an integer").WithCode("INVALID_COUNT"))
			return
		}
	}

	result, err := h.stressService.GenerateMock(r.Context(), userID, count)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Record handles POST /api/stressindicator
func (h *StressHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req StressRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = req.Timestamp.UTC()
	}

	cmd := commands.RecordStressIndicatorCommand{
		IndicatorID: uuid.New().String(),
		UserID:      userID,
		Level:       req.StressLevel,
		Timestamp:   ts,
		Notes:       req.Notes,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.StressIndicatorResult{
		ID:          cmd.IndicatorID,
		UserID:      userID,
		StressLevel: cmd.Level,
		Timestamp:   cmd.Timestamp,
		Notes:       cmd.Notes,
		Source:      string(entities.StressSourceManual),
	})
}
