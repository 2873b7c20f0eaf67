// Package handler exposes the participant flow and the researcher-facing
// response listings. Flow endpoints carry the session state in the request
// body; the server never keeps per-session state in memory.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/experiment"
	"voxlab/internal/experiment/session"
	"voxlab/internal/transport/http/shared"
	id "voxlab/pkg/domain"
	"voxlab/pkg/requestcontext"
)

// Service defines the flow operations the handler needs.
type Service interface {
	Start(ctx context.Context, state *session.State) (*experiment.Response, error)
	Consent(ctx context.Context, state *session.State) (*experiment.Response, error)
	SaveDemographics(ctx context.Context, state *session.State, demo experiment.Demographics, rawUA string) (*experiment.Response, error)
	AttachCall(ctx context.Context, state *session.State, callID id.CallID) (*experiment.Response, error)
	SaveAnswers(ctx context.Context, state *session.State, answers []experiment.Answer) (*experiment.Response, error)
	Finish(ctx context.Context, state *session.State) (*experiment.Response, error)
	Get(ctx context.Context, respID id.ResponseID) (*experiment.Response, error)
	GetByParticipant(ctx context.Context, pid id.ParticipantID) (*experiment.Response, error)
	List(ctx context.Context, filter experiment.Filter) ([]*experiment.Response, error)
	BatchLabels(ctx context.Context) ([]string, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// RegisterParticipant mounts the open participant flow routes.
func (h *Handler) RegisterParticipant(r chi.Router) {
	r.Post("/experiment/start", h.handleStart)
	r.Post("/experiment/consent", h.handleConsent)
	r.Post("/experiment/demographics", h.handleDemographics)
	r.Post("/experiment/call", h.handleAttachCall)
	r.Post("/experiment/answers", h.handleAnswers)
	r.Post("/experiment/finish", h.handleFinish)
	r.Get("/experiment/resume/{participantID}", h.handleResume)
}

// RegisterResearcher mounts the dashboard routes; the router puts these
// behind the researcher auth middleware.
func (h *Handler) RegisterResearcher(r chi.Router) {
	r.Get("/responses", h.handleList)
	r.Get("/responses/{id}", h.handleGet)
	r.Get("/responses/batches", h.handleBatchLabels)
}

// flowResponse pairs the updated session state with the stored response so
// the client can carry the state into its next request.
type flowResponse struct {
	Session  session.State        `json:"session"`
	Response *experiment.Response `json:"response"`
}

type startRequest struct {
	ParticipantID  string `json:"participant_id" validate:"required"`
	BatchLabel     string `json:"batch_label,omitempty"`
	ResearcherMode bool   `json:"researcher_mode,omitempty"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req startRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	state := session.New(id.ParticipantID(req.ParticipantID), req.BatchLabel, requestcontext.Now(ctx))
	state.ResearcherMode = req.ResearcherMode
	resp, err := h.service.Start(ctx, &state)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, flowResponse{Session: state, Response: resp})
}

type consentRequest struct {
	Session session.State `json:"session" validate:"required"`
}

func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	resp, err := h.service.Consent(r.Context(), &req.Session)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: req.Session, Response: resp})
}

type demographicsRequest struct {
	Session        session.State `json:"session" validate:"required"`
	Age            int           `json:"age" validate:"required"`
	Gender         string        `json:"gender,omitempty"`
	Education      string        `json:"education,omitempty"`
	NativeLanguage string        `json:"native_language" validate:"required"`
	EnglishLevel   string        `json:"english_level,omitempty"`
}

func (h *Handler) handleDemographics(w http.ResponseWriter, r *http.Request) {
	var req demographicsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	demo := experiment.Demographics{
		Age:            req.Age,
		Gender:         req.Gender,
		Education:      req.Education,
		NativeLanguage: req.NativeLanguage,
		EnglishLevel:   req.EnglishLevel,
	}
	resp, err := h.service.SaveDemographics(r.Context(), &req.Session, demo, r.UserAgent())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: req.Session, Response: resp})
}

type attachCallRequest struct {
	Session session.State `json:"session" validate:"required"`
	CallID  string        `json:"call_id" validate:"required"`
}

func (h *Handler) handleAttachCall(w http.ResponseWriter, r *http.Request) {
	var req attachCallRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	resp, err := h.service.AttachCall(r.Context(), &req.Session, id.CallID(req.CallID))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: req.Session, Response: resp})
}

type answersRequest struct {
	Session session.State       `json:"session" validate:"required"`
	Answers []experiment.Answer `json:"answers" validate:"required,min=1"`
}

func (h *Handler) handleAnswers(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	resp, err := h.service.SaveAnswers(r.Context(), &req.Session, req.Answers)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: req.Session, Response: resp})
}

type finishRequest struct {
	Session session.State `json:"session" validate:"required"`
}

func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	resp, err := h.service.Finish(r.Context(), &req.Session)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: req.Session, Response: resp})
}

// handleResume rebuilds the session from the stored response so a
// participant can pick up after a page reload.
func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	pid := id.ParticipantID(chi.URLParam(r, "participantID"))
	resp, err := h.service.GetByParticipant(r.Context(), pid)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	state := session.State{
		ParticipantID: resp.ParticipantID,
		ResponseID:    resp.ID,
		Step:          resp.Step,
		BatchLabel:    resp.BatchLabel,
		StartedAt:     resp.CreatedAt,
	}
	shared.WriteJSON(w, http.StatusOK, flowResponse{Session: state, Response: resp})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := experiment.Filter{
		BatchLabel:    r.URL.Query().Get("batch"),
		Step:          experiment.Step(r.URL.Query().Get("step")),
		CompletedOnly: r.URL.Query().Get("completed") == "true",
	}
	responses, err := h.service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	respID, err := id.ParseResponseID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	resp, err := h.service.Get(r.Context(), respID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBatchLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.service.BatchLabels(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, labels)
}
