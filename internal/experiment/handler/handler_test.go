package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"voxlab/internal/experiment"
	"voxlab/internal/experiment/service"
	"voxlab/internal/experiment/store"
)

func TestParticipantFlowViaHandlers(t *testing.T) {
	router := newFlowRouter(t)

	flow := postFlow(t, router, "/experiment/start", map[string]any{
		"participant_id": "AB12CD34",
		"batch_label":    "pilot-1",
	}, http.StatusCreated)
	if flow.Response.Step != experiment.StepWelcome {
		t.Fatalf("expected welcome step after start, got %q", flow.Response.Step)
	}
	if flow.Session.ResponseID.IsNil() {
		t.Fatalf("expected session bound to a response")
	}

	flow = postFlow(t, router, "/experiment/consent", map[string]any{
		"session": flow.Session,
	}, http.StatusOK)
	if flow.Response.ConsentedAt == nil {
		t.Fatalf("expected consent timestamp")
	}

	flow = postFlow(t, router, "/experiment/demographics", map[string]any{
		"session":         flow.Session,
		"age":             31,
		"gender":          "male",
		"native_language": "german",
	}, http.StatusOK)
	if flow.Response.Demographics == nil || flow.Response.Demographics.Age != 31 {
		t.Fatalf("expected demographics persisted, got %+v", flow.Response.Demographics)
	}

	flow = postFlow(t, router, "/experiment/call", map[string]any{
		"session": flow.Session,
		"call_id": "call-xyz",
	}, http.StatusOK)

	flow = postFlow(t, router, "/experiment/answers", map[string]any{
		"session": flow.Session,
		"answers": []map[string]any{
			{"scale": "godspeed", "item": "likeability_1", "value": 5},
		},
	}, http.StatusOK)

	flow = postFlow(t, router, "/experiment/finish", map[string]any{
		"session": flow.Session,
	}, http.StatusOK)
	if flow.Response.Step != experiment.StepComplete || flow.Response.CompletedAt == nil {
		t.Fatalf("expected a completed response, got step %q", flow.Response.Step)
	}
}

func TestStepSkipRejectedViaHandler(t *testing.T) {
	router := newFlowRouter(t)

	flow := postFlow(t, router, "/experiment/start", map[string]any{
		"participant_id": "AB12CD34",
	}, http.StatusCreated)

	// Straight to the questionnaire without consent, demographics, or call.
	rec := doPost(t, router, "/experiment/answers", map[string]any{
		"session": flow.Session,
		"answers": []map[string]any{
			{"scale": "godspeed", "item": "likeability_1", "value": 5},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 skipping steps, got %d", rec.Code)
	}
}

func TestResumeRebuildsSession(t *testing.T) {
	router := newFlowRouter(t)

	flow := postFlow(t, router, "/experiment/start", map[string]any{
		"participant_id": "AB12CD34",
		"batch_label":    "pilot-1",
	}, http.StatusCreated)
	postFlow(t, router, "/experiment/consent", map[string]any{
		"session": flow.Session,
	}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/experiment/resume/AB12CD34", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 resuming, got %d", rec.Code)
	}

	var resumed flowResponse
	if err := json.NewDecoder(rec.Body).Decode(&resumed); err != nil {
		t.Fatalf("failed to decode resume response: %v", err)
	}
	if resumed.Session.Step != experiment.StepConsent {
		t.Fatalf("expected resumed session at consent, got %q", resumed.Session.Step)
	}
	if resumed.Session.ResponseID != flow.Session.ResponseID {
		t.Fatalf("expected resumed session bound to the original response")
	}
	if resumed.Session.BatchLabel != "pilot-1" {
		t.Fatalf("expected batch label carried into the resumed session")
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	router := newFlowRouter(t)

	rec := doPost(t, router, "/experiment/start", map[string]any{
		"participant_id": "AB12CD34",
		"surprise":       true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown body field, got %d", rec.Code)
	}
}

func newFlowRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := service.New(store.NewInMemory())
	if err != nil {
		t.Fatalf("failed to build flow service: %v", err)
	}
	h := New(svc, slog.Default())
	router := chi.NewRouter()
	router.Group(h.RegisterParticipant)
	return router
}

func doPost(t *testing.T, router http.Handler, path string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postFlow(t *testing.T, router http.Handler, path string, payload map[string]any, wantStatus int) flowResponse {
	t.Helper()
	rec := doPost(t, router, path, payload)
	if rec.Code != wantStatus {
		t.Fatalf("POST %s: expected %d, got %d (%s)", path, wantStatus, rec.Code, rec.Body.String())
	}
	var flow flowResponse
	if err := json.NewDecoder(rec.Body).Decode(&flow); err != nil {
		t.Fatalf("POST %s: failed to decode response: %v", path, err)
	}
	return flow
}
