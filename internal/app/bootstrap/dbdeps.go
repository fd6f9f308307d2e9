// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
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
	"github.com/dalemusser/clubsphere/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
)

// DBDeps holds the back-end clients for the app. ClubSphere has no
// database of its own; its "DB" is the ClubSphere REST API plus the
// query cache in front of it.
type DBDeps struct {
	API   *apiclient.Client
	Cache *querycache.Client
	Redis *redis.Client // nil with the memory cache

	// States holds open checkouts, their locks and OAuth states, apart
	// from the read cache so read traffic cannot evict them.
	States querycache.Cache

	Clubs         *clubstore.Store
	Events        *eventstore.Store
	Users         *userstore.Store
	Memberships   *membershipstore.Store
	Registrations *registrationstore.Store
	Payments      *paymentstore.Store
	Dashboard     *dashboardstore.Store

	Identity identity.Provider
	Images   *imagehost.Client
	Stripe   *payments.Stripe
	Checkout *payments.Flow
	Enroll   *enrollment.Service

	LoginLimiter *ratelimit.LoginLimiter
	Probe        *workers.BackendProbe
}
