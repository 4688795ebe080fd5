package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
	"techknowledgepills/pkg/utils"
)

// HealthMetricHandler handles device readings
type HealthMetricHandler struct {
	commandBus        *bus.CommandBus
	queryBus          *querybus.QueryBus
	defaultDeviceType string
	errors            *pkgerrors.ErrorHandler
	logger            *zap.Logger
}

// NewHealthMetricHandler creates a new health metric handler
func NewHealthMetricHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	defaultDeviceType string,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *HealthMetricHandler {
	return &HealthMetricHandler{
		commandBus:        commandBus,
		queryBus:          queryBus,
		defaultDeviceType: defaultDeviceType,
		errors:            errs,
		logger:            logger,
	}
}

// IoTRequest is what a device posts
type IoTRequest struct {
	UserID               string     `json:"userId"`
	Timestamp            *time.Time `json:"timestamp"`
	HeartRate            *int       `json:"heartRate"`
	Steps                *int       `json:"steps"`
	SleepHours           *float64   `json:"sleepHours"`
	HeartRateVariability *int       `json:"heartRateVariability"`
	BodyTemperature      *float64   `json:"bodyTemperature"`
	DeviceID             *string    `json:"deviceId"`
	DeviceType           *string    `json:"deviceType"`
}

// SubmitIoT handles POST /api/healthmetric/iot
func (h *HealthMetricHandler) SubmitIoT(w http.ResponseWriter, r *http.Request) {
	var req IoTRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("userId is required").WithCode("USER_ID_REQUIRED"))
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = req.Timestamp.UTC()
	}
	deviceType := h.defaultDeviceType
	if req.DeviceType != nil && strings.TrimSpace(*req.DeviceType) != "" {
		deviceType = strings.TrimSpace(*req.DeviceType)
	}

	cmd := commands.IngestHealthMetricCommand{
		MetricID:             uuid.New().String(),
		UserID:               req.UserID,
		Timestamp:            ts,
		HeartRate:            req.HeartRate,
		Steps:                req.Steps,
		SleepHours:           req.SleepHours,
		HeartRateVariability: req.HeartRateVariability,
		BodyTemperature:      req.BodyTemperature,
		DeviceID:             req.DeviceID,
		DeviceType:           deviceType,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Debug("IoT reading stored",
		zap.String("metric_id", cmd.MetricID),
		zap.String("device_type", deviceType),
		zap.Bool("device_key", common.IsDeviceAuthenticated(r.Context())))

	common.RespondJSON(w, http.StatusOK, queries.HealthMetricResult{
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
	})
}

// ListMetrics handles GET /api/healthmetric?startDate&endDate
func (h *HealthMetricHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	q := queries.ListHealthMetricsQuery{UserID: userID}
	if raw := r.URL.Query().Get("startDate"); raw != "" {
		from, err := utils.ParseDateOrTime(raw, false)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("startDate: "+err.Error()).WithCode("INVALID_DATE"))
			return
		}
		q.From = &from
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		to, err := utils.ParseDateOrTime(raw, true)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("endDate: "+err.Error()).WithCode("INVALID_DATE"))
			return
		}
		q.To = &to
	}

	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Latest handles GET /api/healthmetric/latest
func (h *HealthMetricHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.LatestHealthMetricQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
