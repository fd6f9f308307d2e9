package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/features/health"
	"github.com/dalemusser/clubsphere/internal/app/system/workers"
	"go.uber.org/zap"
)

type fixedProbe workers.Status

func (p fixedProbe) Status() workers.Status { return workers.Status(p) }

func serve(t *testing.T, st workers.Status) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := health.NewHandler(fixedProbe(st), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestServe_BackendConnected(t *testing.T) {
	rec, body := serve(t, workers.Status{Healthy: true, CheckedAt: time.Now(), Latency: "3ms"})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if body["status"] != "ok" || body["backend"] != "connected" {
		t.Errorf("body: %v", body)
	}
}

func TestServe_BackendUnreachable(t *testing.T) {
	rec, body := serve(t, workers.Status{Healthy: false, CheckedAt: time.Now(), Error: "connection refused", Failures: 3})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
	if body["status"] != "error" || body["message"] != "Backend unavailable" {
		t.Errorf("body: %v", body)
	}
	probe, _ := body["probe"].(map[string]any)
	if probe["consecutive_failures"] != float64(3) {
		t.Errorf("probe: %v", probe)
	}
}

func TestServe_BeforeFirstProbe(t *testing.T) {
	rec, body := serve(t, workers.Status{})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if body["status"] != "starting" {
		t.Errorf("body: %v", body)
	}
}
