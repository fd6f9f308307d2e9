// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Cache backends accepted by cache_backend.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// minSessionKeyLen is the shortest session signing key accepted.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for ClubSphere.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: CLUBSPHERE_API_BASE_URL, CLUBSPHERE_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:5000", Desc: "ClubSphere REST API origin (\"/api\" is appended when missing)"},
	{Name: "api_timeout", Default: "30s", Desc: "Timeout for a single backend request"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_block_key", Default: "", Desc: "Session encryption key, 16/24/32 bytes (random per process when blank)"},
	{Name: "session_name", Default: "clubsphere-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL, used for OAuth callbacks"},

	// Identity provider
	{Name: "firebase_api_key", Default: "", Desc: "Firebase Web API key"},
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (blank disables Google sign-in)"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Payments
	{Name: "stripe_publishable_key", Default: "", Desc: "Stripe publishable key"},
	{Name: "stripe_api_url", Default: "https://api.stripe.com", Desc: "Stripe API origin"},

	// Image host
	{Name: "imgbb_api_key", Default: "", Desc: "imgbb API key"},
	{Name: "imgbb_api_url", Default: "https://api.imgbb.com/1/upload", Desc: "imgbb upload endpoint"},

	// Query cache
	{Name: "cache_backend", Default: CacheMemory, Desc: "Query cache backend: 'memory' or 'redis'"},
	{Name: "cache_ttl", Default: "5m", Desc: "How long cached backend reads stay fresh"},
	{Name: "cache_size", Default: 4096, Desc: "Maximum entries in the in-memory cache"},
	{Name: "state_cache_size", Default: 10000, Desc: "Maximum open checkouts and OAuth states held in memory"},
	{Name: "redis_addr", Default: "", Desc: "Redis address (host:port) for the redis cache backend"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Observability
	{Name: "metrics_token", Default: "", Desc: "Bearer token required to scrape /metrics (blank disables the endpoint)"},

	// Error reporting
	{Name: "sentry_dsn", Default: "", Desc: "Sentry DSN (blank disables error reporting)"},

	// Identity sync and tokens
	{Name: "sync_backoff_base", Default: "2s", Desc: "First retry delay after a failed identity sync"},
	{Name: "sync_backoff_max", Default: "2m", Desc: "Longest retry delay after failed identity syncs"},
	{Name: "token_refresh_window", Default: "5m", Desc: "Refresh the ID token when it expires within this window"},
	{Name: "role_resync_interval", Default: "10m", Desc: "Re-check a signed-in user's role with the backend this often"},

	// Background work
	{Name: "backend_probe_schedule", Default: "@every 30s", Desc: "Cron schedule for the backend health probe"},

	// Abuse protection
	{Name: "login_rate_per_minute", Default: 10, Desc: "Password sign-in attempts allowed per IP and per email each minute"},
	{Name: "trust_proxy", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (enable only behind a reverse proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CLUBSPHERE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBSPHERE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 30*time.Second),

		SessionKey:      appValues.String("session_key"),
		SessionBlockKey: appValues.String("session_block_key"),
		SessionName:     appValues.String("session_name"),
		SessionDomain:   appValues.String("session_domain"),

		BaseURL: strings.TrimSuffix(appValues.String("base_url"), "/"),

		FirebaseAPIKey:     appValues.String("firebase_api_key"),
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		StripePublishableKey: appValues.String("stripe_publishable_key"),
		StripeAPIURL:         appValues.String("stripe_api_url"),

		ImgbbAPIKey: appValues.String("imgbb_api_key"),
		ImgbbAPIURL: appValues.String("imgbb_api_url"),

		CacheBackend:   strings.ToLower(strings.TrimSpace(appValues.String("cache_backend"))),
		CacheTTL:       appValues.Duration("cache_ttl", 5*time.Minute),
		CacheSize:      appValues.Int("cache_size"),
		StateCacheSize: appValues.Int("state_cache_size"),
		RedisAddr:      appValues.String("redis_addr"),
		RedisPassword:  appValues.String("redis_password"),
		RedisDB:        appValues.Int("redis_db"),

		MetricsToken: appValues.String("metrics_token"),
		SentryDSN:    appValues.String("sentry_dsn"),

		SyncBackoffBase:    appValues.Duration("sync_backoff_base", 2*time.Second),
		SyncBackoffMax:     appValues.Duration("sync_backoff_max", 2*time.Minute),
		TokenRefreshWindow: appValues.Duration("token_refresh_window", 5*time.Minute),
		RoleResyncInterval: appValues.Duration("role_resync_interval", 10*time.Minute),

		BackendProbeSchedule: appValues.String("backend_probe_schedule"),

		LoginRatePerMinute: appValues.Int("login_rate_per_minute"),
		TrustProxy:         appValues.Bool("trust_proxy"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Misconfiguration that would only surface on the first request (a relative
// backend URL, a weak session key, a cache backend that cannot be built) is
// rejected here.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid API base URL", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("api_base_url %q must be an absolute URL", appCfg.APIBaseURL)
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters, got %d", minSessionKeyLen, len(appCfg.SessionKey))
	}

	switch len(appCfg.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("session_block_key must be 16, 24 or 32 bytes, got %d", len(appCfg.SessionBlockKey))
	}

	switch appCfg.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if appCfg.RedisAddr == "" {
			return fmt.Errorf("cache_backend %q requires redis_addr", CacheRedis)
		}
	default:
		return fmt.Errorf("cache_backend must be %q or %q, got %q", CacheMemory, CacheRedis, appCfg.CacheBackend)
	}

	if appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret == "" {
		return fmt.Errorf("google_client_id is set but google_client_secret is empty")
	}

	if appCfg.FirebaseAPIKey == "" {
		logger.Warn("firebase_api_key is not set; sign-in and sign-up will fail")
	}
	if appCfg.StripePublishableKey == "" {
		logger.Warn("stripe_publishable_key is not set; paid checkouts will fail")
	}
	if appCfg.ImgbbAPIKey == "" {
		logger.Warn("imgbb_api_key is not set; photo and banner uploads will fail")
	}

	return nil
}
