// Package httptransport composes the HTTP surface: open participant routes,
// researcher-authenticated dashboard routes, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	backloghandler "voxlab/internal/backlog/handler"
	experimenthandler "voxlab/internal/experiment/handler"
	formalityhandler "voxlab/internal/formality/handler"
	pipelinehandler "voxlab/internal/pipeline/handler"
	"voxlab/internal/platform/metrics"
	"voxlab/internal/platform/middleware"
	researcherhandler "voxlab/internal/researcher/handler"
	settingshandler "voxlab/internal/settings/handler"
)

// Handlers collects the per-domain handlers the router mounts.
type Handlers struct {
	Experiment *experimenthandler.Handler
	Formality  *formalityhandler.Handler
	Pipeline   *pipelinehandler.Handler
	Settings   *settingshandler.Handler
	Backlog    *backloghandler.Handler
	Researcher *researcherhandler.Handler
}

// NewRouter wires middleware and routes. Everything under /api/dashboard
// requires a researcher token; the participant flow and login are open.
func NewRouter(h Handlers, validator middleware.JWTValidator, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	// Pipeline run-all drains whole backlogs in one request, so the request
	// deadline has to cover minutes, not seconds.
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(middleware.Instrument(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		h.Researcher.RegisterPublic(api)
		h.Experiment.RegisterParticipant(api)

		api.Route("/dashboard", func(dash chi.Router) {
			dash.Use(middleware.RequireResearcher(validator, logger))
			h.Researcher.RegisterProtected(dash)
			h.Experiment.RegisterResearcher(dash)
			h.Formality.Register(dash)
			h.Pipeline.Register(dash)
			h.Settings.Register(dash)
			h.Backlog.Register(dash)
		})
	})

	return r
}
