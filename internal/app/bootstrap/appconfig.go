// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; everything ClubSphere needs to
// reach its backend and third-party services lives here.
type AppConfig struct {
	// ClubSphere REST API
	APIBaseURL string        // backend origin; "/api" is appended when missing
	APITimeout time.Duration // per-request timeout for backend calls

	// Session management configuration
	SessionKey      string // HMAC key for session cookies (32+ chars)
	SessionBlockKey string // AES key for session cookies (16/24/32 bytes)
	SessionName     string // Cookie name for sessions (default: clubsphere-session)
	SessionDomain   string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks, e.g. "https://clubsphere.example.com"
	BaseURL string

	// Identity provider
	FirebaseAPIKey     string
	GoogleClientID     string
	GoogleClientSecret string

	// Payments
	StripePublishableKey string
	StripeAPIURL         string

	// Image host
	ImgbbAPIKey string
	ImgbbAPIURL string

	// Query cache: "memory" or "redis"
	CacheBackend   string
	CacheTTL       time.Duration
	CacheSize      int
	StateCacheSize int // separate memory cache for checkouts and OAuth states
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Bearer token for /metrics (blank disables the endpoint)
	MetricsToken string

	// Error reporting (blank disables Sentry)
	SentryDSN string

	// Identity sync and token refresh
	SyncBackoffBase    time.Duration
	SyncBackoffMax     time.Duration
	TokenRefreshWindow time.Duration
	RoleResyncInterval time.Duration

	// Cron schedule for the backend health probe
	BackendProbeSchedule string

	// Password sign-in attempts allowed per IP and per email each minute
	LoginRatePerMinute int

	// Trust forwarding headers for the client IP (behind a reverse proxy only)
	TrustProxy bool
}
