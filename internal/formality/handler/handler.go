// Package handler exposes formality scoring over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/formality"
	"voxlab/internal/transport/http/shared"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// Service defines the scoring operations the handler needs.
type Service interface {
	Score(ctx context.Context, text string, opts formality.Options) (*formality.Calculation, error)
	Get(ctx context.Context, calcID id.CalculationID) (*formality.Calculation, error)
	Breakdown(ctx context.Context, calcID id.CalculationID, vis formality.Visibility) (formality.View, error)
	ListByCall(ctx context.Context, callID id.CallID) ([]*formality.Calculation, error)
	List(ctx context.Context, limit, offset int) ([]*formality.Calculation, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/formality/score", h.handleScore)
	r.Get("/formality/calculations", h.handleList)
	r.Get("/formality/calculations/{id}", h.handleGet)
	r.Get("/formality/calculations/{id}/breakdown", h.handleBreakdown)
}

type scoreRequest struct {
	Transcript    string `json:"transcript" validate:"required"`
	CallID        string `json:"call_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
	AIOnly        bool   `json:"ai_only,omitempty"`
	PerTurn       bool   `json:"per_turn,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req scoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	calc, err := h.service.Score(ctx, req.Transcript, formality.Options{
		CallID:        id.CallID(req.CallID),
		ParticipantID: id.ParticipantID(req.ParticipantID),
		AIOnly:        req.AIOnly,
		PerTurn:       req.PerTurn,
		Notes:         req.Notes,
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			h.logger.ErrorContext(ctx, "scoring failed", "error", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, calc)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	calcID, err := id.ParseCalculationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	calc, err := h.service.Get(r.Context(), calcID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, calc)
}

func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	calcID, err := id.ParseCalculationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.service.Breakdown(r.Context(), calcID, visibilityFromQuery(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if callID := r.URL.Query().Get("call_id"); callID != "" {
		calcs, err := h.service.ListByCall(r.Context(), id.CallID(callID))
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, calcs)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	calcs, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, calcs)
}

// visibilityFromQuery hides categories listed in ?hide=noun,verb so the
// breakdown view can be rendered with legend toggles applied server-side.
func visibilityFromQuery(r *http.Request) formality.Visibility {
	vis := formality.AllVisible()
	hide := r.URL.Query().Get("hide")
	if hide == "" {
		return vis
	}
	for _, key := range strings.Split(hide, ",") {
		vis = vis.Toggle(formality.Category(strings.TrimSpace(key)))
	}
	return vis
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
