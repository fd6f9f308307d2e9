package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		APIBaseURL:   "http://localhost:5000",
		APITimeout:   5 * time.Second,
		SessionKey:   "test-session-key-must-be-32-chars-long",
		SessionName:  "clubsphere-session",
		CacheBackend: CacheMemory,
		CacheTTL:     time.Minute,
		CacheSize:    16,
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{}, validConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"relative api url", func(c *AppConfig) { c.APIBaseURL = "/api" }, "api_base_url"},
		{"missing api url", func(c *AppConfig) { c.APIBaseURL = "" }, "api_base_url"},
		{"short session key", func(c *AppConfig) { c.SessionKey = "short" }, "session_key"},
		{"bad block key", func(c *AppConfig) { c.SessionBlockKey = "abc" }, "session_block_key"},
		{"unknown cache", func(c *AppConfig) { c.CacheBackend = "memcached" }, "cache_backend"},
		{"redis without addr", func(c *AppConfig) { c.CacheBackend = CacheRedis }, "redis_addr"},
		{"google without secret", func(c *AppConfig) { c.GoogleClientID = "id" }, "google_client_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateConfig_RedisWithAddr(t *testing.T) {
	cfg := validConfig()
	cfg.CacheBackend = CacheRedis
	cfg.RedisAddr = "localhost:6379"
	if err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestConnectDB_MemoryCacheWiresEverything(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, validConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(func() {
		_ = Shutdown(context.Background(), &config.CoreConfig{}, validConfig(), deps, zap.NewNop())
	})

	if deps.Redis != nil {
		t.Error("memory backend should not open a redis client")
	}
	if deps.API == nil || deps.Cache == nil {
		t.Fatal("api client and cache are required")
	}
	if deps.Clubs == nil || deps.Events == nil || deps.Users == nil || deps.Memberships == nil ||
		deps.Registrations == nil || deps.Payments == nil || deps.Dashboard == nil {
		t.Error("every store should be built")
	}
	if deps.Identity == nil || deps.Images == nil || deps.Stripe == nil || deps.Checkout == nil || deps.Enroll == nil {
		t.Error("every service should be built")
	}
	if deps.LoginLimiter == nil || deps.Probe == nil {
		t.Error("limiter and probe should be built")
	}
	if !deps.Probe.Status().CheckedAt.IsZero() {
		t.Error("probe should not run before Startup")
	}
}

func TestConnectDB_RelativeURLFails(t *testing.T) {
	cfg := validConfig()
	cfg.APIBaseURL = "api"
	if _, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a relative base URL")
	}
}

func TestConnectDB_CheckoutStateSurvivesReadTraffic(t *testing.T) {
	cfg := validConfig()
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(func() {
		_ = Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, zap.NewNop())
	})

	ctx := context.Background()
	if err := deps.States.Set(ctx, "checkout|co-1", []byte(`{"id":"co-1"}`), 30*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Fill the read cache well past its size.
	reads := deps.Cache.Cache()
	for i := 0; i < cfg.CacheSize*4; i++ {
		if err := reads.Set(ctx, fmt.Sprintf("user-%d|/memberships/my", i), []byte("[]"), time.Minute); err != nil {
			t.Fatalf("Set read %d: %v", i, err)
		}
	}

	if _, ok, _ := reads.Get(ctx, "user-0|/memberships/my"); ok {
		t.Fatal("expected the oldest read to be evicted")
	}
	if _, ok, _ := deps.States.Get(ctx, "checkout|co-1"); !ok {
		t.Fatal("open checkout was evicted by read traffic")
	}
}
