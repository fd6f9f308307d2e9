// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	dashboardstore "github.com/dalemusser/clubsphere/internal/app/store/dashboard"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	userstore "github.com/dalemusser/clubsphere/internal/app/store/users"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/app/system/ratelimit"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stateKeyPrefix keeps checkout and OAuth state apart from cached reads in
// a shared redis.
const stateKeyPrefix = "clubsphere:state:"

// ConnectDB builds the back-end clients: the REST API client, the query
// cache in front of it, the stores over both, and the identity, payment
// and image services the features call.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	api, err := apiclient.New(apiclient.Config{
		BaseURL: appCfg.APIBaseURL,
		Timeout: appCfg.APITimeout,
		Logger:  logger.Named("api"),
	})
	if err != nil {
		return DBDeps{}, err
	}

	deps := DBDeps{API: api}

	var cache querycache.Cache
	switch appCfg.CacheBackend {
	case CacheRedis:
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		cache = querycache.NewRedisCache(deps.Redis, "")
		deps.States = querycache.NewRedisCache(deps.Redis, stateKeyPrefix)
		logger.Info("query cache backend: redis", zap.String("addr", appCfg.RedisAddr))
	default:
		cache = querycache.NewMemoryCache(appCfg.CacheSize)
		deps.States = querycache.NewMemoryCache(appCfg.StateCacheSize)
		logger.Info("query cache backend: memory",
			zap.Int("size", appCfg.CacheSize),
			zap.Int("state_size", appCfg.StateCacheSize))
	}
	deps.Cache = querycache.New(cache, appCfg.CacheTTL, logger.Named("querycache"))

	deps.Clubs = clubstore.New(api, deps.Cache)
	deps.Events = eventstore.New(api, deps.Cache)
	deps.Users = userstore.New(api, deps.Cache)
	deps.Memberships = membershipstore.New(api, deps.Cache)
	deps.Registrations = registrationstore.New(api, deps.Cache)
	deps.Payments = paymentstore.New(api, deps.Cache)
	deps.Dashboard = dashboardstore.New(api, deps.Cache)

	outbound := &http.Client{Timeout: 30 * time.Second}

	deps.Identity = identity.NewFirebase(identity.FirebaseConfig{
		APIKey:     appCfg.FirebaseAPIKey,
		HTTPClient: outbound,
		Logger:     logger.Named("identity"),
	})

	deps.Images = imagehost.New(imagehost.Config{
		APIKey:     appCfg.ImgbbAPIKey,
		URL:        appCfg.ImgbbAPIURL,
		HTTPClient: outbound,
		Logger:     logger.Named("imagehost"),
	})

	deps.Stripe = payments.NewStripe(payments.StripeConfig{
		PublishableKey: appCfg.StripePublishableKey,
		APIURL:         appCfg.StripeAPIURL,
		HTTPClient:     outbound,
		Logger:         logger.Named("stripe"),
	})

	deps.Checkout = payments.NewFlow(payments.FlowConfig{
		Backend:   deps.Payments,
		Processor: deps.Stripe,
		Cache:     deps.States,
		Logger:    logger.Named("payments"),
	})

	deps.Enroll = enrollment.New(enrollment.Config{
		Clubs:         deps.Clubs,
		Events:        deps.Events,
		Memberships:   deps.Memberships,
		Registrations: deps.Registrations,
		Checkouts:     deps.Checkout,
		Logger:        logger.Named("enrollment"),
	})

	deps.LoginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRatePerMinute)
	deps.LoginLimiter.TrustProxyHeaders(appCfg.TrustProxy)

	deps.Probe = workers.NewBackendProbe(api.Ping, logger.Named("probe"),
		appCfg.BackendProbeSchedule, timeouts.Ping())

	return deps, nil
}

// EnsureSchema checks the back ends answer before the server starts.
// ClubSphere owns no schema; a shared redis cache must be reachable, while
// an unreachable REST API is only logged since the probe keeps watching it.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		if err := deps.Redis.Ping(pingCtx).Err(); err != nil {
			logger.Error("redis ping failed", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			return fmt.Errorf("redis %s: %w", appCfg.RedisAddr, err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := deps.API.Ping(pingCtx); err != nil {
		logger.Warn("backend not reachable at startup", zap.String("api_base_url", appCfg.APIBaseURL), zap.Error(err))
	}
	return nil
}
