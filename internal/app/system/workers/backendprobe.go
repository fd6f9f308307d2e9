// internal/app/system/workers/backendprobe.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PingFunc checks that a dependency answers.
type PingFunc func(ctx context.Context) error

// Status is the last known backend health.
type Status struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
	Latency   string    `json:"latency,omitempty"`
	Error     string    `json:"error,omitempty"`
	Failures  int       `json:"consecutive_failures"`
}

// BackendProbe is a background worker that periodically pings the
// ClubSphere API and records whether it is reachable.
type BackendProbe struct {
	ping     PingFunc
	log      *zap.Logger
	schedule string
	timeout  time.Duration
	now      func() time.Time

	cron *cron.Cron

	mu     sync.RWMutex
	status Status
}

// NewBackendProbe creates a new probe worker.
//
// Parameters:
//   - ping: the health check to run (normally apiclient.Client.Ping)
//   - logger: zap logger for logging
//   - schedule: cron spec for the check (e.g., "@every 30s")
//   - timeout: per-check deadline
func NewBackendProbe(ping PingFunc, logger *zap.Logger, schedule string, timeout time.Duration) *BackendProbe {
	if schedule == "" {
		schedule = "@every 30s"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackendProbe{
		ping:     ping,
		log:      logger,
		schedule: schedule,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Start runs one check immediately and then schedules the rest.
func (w *BackendProbe) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() { w.Check(context.Background()) }); err != nil {
		return err
	}
	w.Check(context.Background())
	w.cron.Start()
	w.log.Info("backend probe worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (w *BackendProbe) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.log.Info("backend probe worker stopped")
}

// Check pings the backend once and records the result.
func (w *BackendProbe) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := w.now()
	err := w.ping(ctx)
	elapsed := w.now().Sub(start)

	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.status
	w.status = Status{Healthy: err == nil, CheckedAt: w.now(), Latency: elapsed.String()}
	if err != nil {
		w.status.Error = err.Error()
		w.status.Failures = prev.Failures + 1
		if prev.Healthy || prev.CheckedAt.IsZero() {
			w.log.Warn("backend unreachable", zap.Error(err))
		}
	} else if !prev.Healthy && !prev.CheckedAt.IsZero() {
		w.log.Info("backend reachable again", zap.Int("after_failures", prev.Failures))
	}
	return w.status
}

// Status returns the last recorded result. Before the first check it
// reports unhealthy with a zero CheckedAt.
func (w *BackendProbe) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
