package health

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/workers"
	"go.uber.org/zap"
)

// Prober reports the last known backend health.
type Prober interface {
	Status() workers.Status
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Probe Prober
	Log   *zap.Logger
}

// NewHandler constructs a health Handler over the backend probe.
func NewHandler(probe Prober, logger *zap.Logger) *Handler {
	return &Handler{
		Probe: probe,
		Log:   logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string         `json:"status"`
	Backend string         `json:"backend"`
	Message string         `json:"message,omitempty"`
	Probe   workers.Status `json:"probe"`
}

// Serve handles GET /health from the probe's last result; it never
// calls the backend itself.
//
// Backend reachable: 200 and
//
//	{ "status":"ok", "backend":"connected", "probe":{...} }
//
// Backend unreachable: 503 and
//
//	{ "status":"error", "backend":"unreachable", "message":"Backend unavailable", "probe":{...} }
//
// Before the first probe: 200 with status "starting".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	st := h.Probe.Status()
	resp := healthResponse{Status: "ok", Backend: "connected", Probe: st}

	switch {
	case st.CheckedAt.IsZero():
		resp.Status = "starting"
		resp.Backend = "unknown"
	case !st.Healthy:
		h.Log.Warn("health-check: backend unreachable", zap.String("error", st.Error), zap.Int("failures", st.Failures))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Backend = "unreachable"
		resp.Message = "Backend unavailable"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
