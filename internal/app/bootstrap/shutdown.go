// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Shutdown stops background work and releases the back-end clients.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Probe != nil {
		deps.Probe.Stop()
	}
	if deps.LoginLimiter != nil {
		deps.LoginLimiter.Close()
	}

	var firstErr error
	if deps.Cache != nil {
		if err := deps.Cache.Cache().Close(); err != nil {
			logger.Error("query cache close failed", zap.Error(err))
			firstErr = err
		}
	}
	if deps.States != nil {
		if err := deps.States.Close(); err != nil {
			logger.Error("state cache close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if deps.Redis != nil {
		logger.Info("closing redis client")
		if err := deps.Redis.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if appCfg.SentryDSN != "" {
		sentry.Flush(2 * time.Second)
	}
	return firstErr
}
