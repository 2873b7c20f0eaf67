// Package handler exposes the pipeline dashboard endpoints: status, stage
// runs, run-all, and the rules-version bump.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/pipeline"
	"voxlab/internal/pipeline/models"
	"voxlab/internal/transport/http/shared"
	dErrors "voxlab/pkg/domain-errors"
)

type Handler struct {
	logger *slog.Logger
	engine *pipeline.Engine
	runner *pipeline.Runner
}

func New(engine *pipeline.Engine, runner *pipeline.Runner, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, engine: engine, runner: runner}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/pipeline/status", h.handleStatus)
	r.Post("/pipeline/stages/{stage}/run", h.handleRunStage)
	r.Post("/pipeline/run-all", h.handleRunAll)
	r.Get("/pipeline/run-all/estimate", h.handleEstimate)
	r.Post("/pipeline/rules-version/bump", h.handleBump)
}

// handleStatus recomputes the full status snapshot. Dashboard loads and
// post-run refreshes both land here; the engine's generation counter makes
// the latest request win.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.engine.FetchStatus(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, status)
}

type runStageRequest struct {
	Recompute bool `json:"recompute,omitempty"`
	Retry     bool `json:"retry,omitempty"`
}

type runStageResponse struct {
	Stage     models.Stage `json:"stage"`
	Processed int          `json:"processed"`
}

func (h *Handler) handleRunStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stage := models.Stage(chi.URLParam(r, "stage"))
	if !stage.IsValid() {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown stage %q", stage))
		return
	}

	var req runStageRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	processed, err := h.runner.RunStage(ctx, stage,
		pipeline.RunOptions{Recompute: req.Recompute, Retry: req.Retry},
		func(processed int) {
			h.logger.InfoContext(ctx, "stage progress",
				"stage", string(stage), "processed", processed)
		})
	if err != nil {
		// Items already processed stay committed; report both facts.
		h.logger.ErrorContext(ctx, "stage run failed",
			"stage", string(stage), "processed", processed, "error", err)
		shared.WriteError(w, err)
		return
	}

	if _, err := h.engine.FetchStatus(ctx); err != nil {
		h.logger.WarnContext(ctx, "status refresh after stage run failed", "error", err)
	}
	shared.WriteJSON(w, http.StatusOK, runStageResponse{Stage: stage, Processed: processed})
}

type runAllRequest struct {
	Metrics   bool `json:"metrics"`
	PassA     bool `json:"pass_a"`
	PassB     bool `json:"pass_b"`
	Recompute bool `json:"recompute,omitempty"`
}

func (h *Handler) handleRunAll(w http.ResponseWriter, r *http.Request) {
	var req runAllRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	sel := pipeline.Selection{Metrics: req.Metrics, PassA: req.PassA, PassB: req.PassB}
	if len(sel.Stages()) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no stages selected"))
		return
	}

	result, err := h.runner.RunAll(r.Context(), sel,
		pipeline.RunOptions{Recompute: req.Recompute}, nil)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

// handleEstimate projects cost and duration for a run-all selection from the
// last computed status, without running anything.
func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	status := h.engine.LastStatus()
	if status == nil {
		var err error
		status, err = h.engine.FetchStatus(r.Context())
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}
	sel := pipeline.Selection{
		Metrics: r.URL.Query().Get("metrics") != "false",
		PassA:   r.URL.Query().Get("pass_a") != "false",
		PassB:   r.URL.Query().Get("pass_b") != "false",
	}
	shared.WriteJSON(w, http.StatusOK, pipeline.EstimateRunAll(status, sel))
}

type bumpRequest struct {
	// Confirm must be true; bumping marks every thematic code stale.
	Confirm bool `json:"confirm" validate:"required"`
}

type bumpResponse struct {
	RulesVersion int `json:"rules_version"`
}

func (h *Handler) handleBump(w http.ResponseWriter, r *http.Request) {
	var req bumpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	version, err := h.runner.BumpRulesVersion(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, bumpResponse{RulesVersion: version})
}
