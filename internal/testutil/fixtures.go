package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// This is needed when testing handlers that use chi.URLParam().
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewQueryCache returns an in-memory query cache client for tests.
func NewQueryCache(t *testing.T) *querycache.Client {
	t.Helper()
	mem := querycache.NewMemoryCache(1024)
	t.Cleanup(func() { _ = mem.Close() })
	return querycache.New(mem, time.Minute, zap.NewNop())
}
