// Package handler exposes experiment settings to the dashboard.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/transport/http/shared"
)

// Service defines the settings operations the handler needs. The rules
// version is bumped through the pipeline endpoints, not here.
type Service interface {
	RulesVersion(ctx context.Context) (int, error)
	ActiveEvaluationMetricID(ctx context.Context) (string, error)
	SetActiveEvaluationMetricID(ctx context.Context, metricID string) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings/active-metric", h.handleSetActiveMetric)
}

type settingsResponse struct {
	RulesVersion   int    `json:"thematic_coding_rules_version"`
	ActiveMetricID string `json:"active_vapi_evaluation_metric_id,omitempty"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	version, err := h.service.RulesVersion(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	metricID, err := h.service.ActiveEvaluationMetricID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, settingsResponse{
		RulesVersion:   version,
		ActiveMetricID: metricID,
	})
}

type setActiveMetricRequest struct {
	MetricID string `json:"metric_id" validate:"required"`
}

func (h *Handler) handleSetActiveMetric(w http.ResponseWriter, r *http.Request) {
	var req setActiveMetricRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.SetActiveEvaluationMetricID(r.Context(), req.MetricID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
