// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	adminfeature "github.com/dalemusser/clubsphere/internal/app/features/admin"
	authgooglefeature "github.com/dalemusser/clubsphere/internal/app/features/authgoogle"
	checkoutfeature "github.com/dalemusser/clubsphere/internal/app/features/checkout"
	clubsfeature "github.com/dalemusser/clubsphere/internal/app/features/clubs"
	dashboardfeature "github.com/dalemusser/clubsphere/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/clubsphere/internal/app/features/events"
	healthfeature "github.com/dalemusser/clubsphere/internal/app/features/health"
	homefeature "github.com/dalemusser/clubsphere/internal/app/features/home"
	loginfeature "github.com/dalemusser/clubsphere/internal/app/features/login"
	logoutfeature "github.com/dalemusser/clubsphere/internal/app/features/logout"
	managerfeature "github.com/dalemusser/clubsphere/internal/app/features/manager"
	profilefeature "github.com/dalemusser/clubsphere/internal/app/features/profile"
	registerfeature "github.com/dalemusser/clubsphere/internal/app/features/register"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/metrics"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, back-end clients and Startup have
// completed. ClubSphere builds the session manager over the identity
// provider and the backend's user sync, boots the template engine, and
// mounts the public pages, the sign-in flows, checkout and the role-based
// dashboards.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(auth.Config{
		SessionKey:         appCfg.SessionKey,
		BlockKey:           appCfg.SessionBlockKey,
		Name:               appCfg.SessionName,
		Domain:             appCfg.SessionDomain,
		Secure:             secure,
		SyncBackoffBase:    appCfg.SyncBackoffBase,
		SyncBackoffMax:     appCfg.SyncBackoffMax,
		TokenRefreshWindow: appCfg.TokenRefreshWindow,
		RoleResyncInterval: appCfg.RoleResyncInterval,
	}, logger.Named("session"))
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetProvider(deps.Identity)
	sessionMgr.SetSyncer(deps.Users)
	viewdata.SetNoticeLoader(sessionMgr.PopNotices)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(apiclient.RequestID)
	r.Use(metrics.Instrument)

	// Operational endpoints sit outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.Probe, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	if appCfg.MetricsToken != "" {
		r.Handle("/metrics", metrics.ProtectedHandler(appCfg.MetricsToken))
	} else {
		logger.Info("metrics endpoint disabled; set metrics_token to enable it")
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(pr chi.Router) {
		pr.Use(csrfMiddleware(appCfg.SessionKey, secure))

		// Loads the SessionUser, refreshing the token and retrying the
		// identity sync when due.
		pr.Use(sessionMgr.LoadSession)

		// Public pages
		homeHandler := homefeature.NewHandler(deps.Clubs, logger)
		pr.Get("/", homeHandler.ServeRoot)

		clubsHandler := clubsfeature.NewHandler(deps.Clubs, deps.Events, deps.Memberships, deps.Enroll, sessionMgr, logger)
		pr.Mount("/clubs", clubsfeature.Routes(clubsHandler, sessionMgr))

		eventsHandler := eventsfeature.NewHandler(deps.Events, deps.Clubs, deps.Registrations, deps.Enroll, sessionMgr, logger)
		pr.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

		checkoutHandler := checkoutfeature.NewHandler(deps.Enroll, deps.Stripe.PublishableKey(), sessionMgr, logger)
		pr.Mount("/checkout", checkoutfeature.Routes(checkoutHandler, sessionMgr))

		// Authentication
		googleEnabled := appCfg.GoogleClientID != ""
		loginHandler := loginfeature.NewHandler(deps.Identity, sessionMgr, deps.LoginLimiter, googleEnabled, logger)
		pr.Mount("/login", loginfeature.Routes(loginHandler))

		registerHandler := registerfeature.NewHandler(deps.Identity, deps.Images, sessionMgr, logger)
		pr.Mount("/register", registerfeature.Routes(registerHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		pr.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		if googleEnabled {
			googleHandler := authgooglefeature.NewHandler(deps.Identity, sessionMgr, deps.States,
				appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
			pr.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		}

		// Error pages
		pr.Get("/forbidden", errorsHandler.Forbidden)
		pr.Get("/unauthorized", errorsHandler.Unauthorized)

		// Role-based dashboards
		adminHandler := adminfeature.NewHandler(adminfeature.Stores{
			Clubs:       deps.Clubs,
			Events:      deps.Events,
			Users:       deps.Users,
			Memberships: deps.Memberships,
			Payments:    deps.Payments,
			Stats:       deps.Dashboard,
		}, sessionMgr, logger)
		pr.Mount("/dashboard/admin", adminfeature.Routes(adminHandler, sessionMgr))

		managerHandler := managerfeature.NewHandler(managerfeature.Stores{
			Clubs:         deps.Clubs,
			Events:        deps.Events,
			Memberships:   deps.Memberships,
			Registrations: deps.Registrations,
			Stats:         deps.Dashboard,
		}, deps.Images, sessionMgr, logger)
		pr.Mount("/dashboard/manager", managerfeature.Routes(managerHandler, sessionMgr))

		profileHandler := profilefeature.NewHandler(deps.Users, deps.Identity, deps.Images, sessionMgr, logger)
		pr.Mount("/dashboard/profile", profilefeature.Routes(profileHandler, sessionMgr))

		dashboardHandler := dashboardfeature.NewHandler(deps.Memberships, deps.Registrations, deps.Payments, sessionMgr, logger)
		pr.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))
	})

	return r, nil
}

// csrfMiddleware protects every form post. The token key is derived from
// the session key.
func csrfMiddleware(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.RenderForbidden(w, r, "Your form expired. Please go back, reload the page and try again.", "")
		})),
	)
	if secure {
		return protect
	}
	// Plain HTTP outside prod skips the HTTPS referer check.
	return func(next http.Handler) http.Handler {
		inner := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
