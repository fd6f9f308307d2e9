// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/clubsphere/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the back-end
// clients are built, but before the HTTP handler is built: error reporting,
// the shared templates and the backend probe.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              appCfg.SentryDSN,
			Environment:      coreCfg.Env,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			logger.Info("sentry error reporting enabled", zap.String("env", coreCfg.Env))
		}
	}

	resources.LoadSharedTemplates()

	if err := deps.Probe.Start(); err != nil {
		return fmt.Errorf("backend probe: %w", err)
	}
	return nil
}
