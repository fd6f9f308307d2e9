package querycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client fronts a Cache with JSON encoding, read coalescing and
// write-driven invalidation.
type Client struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
	log   *zap.Logger
}

// New creates a Client whose reads live for ttl.
func New(cache Cache, ttl time.Duration, logger *zap.Logger) *Client {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cache: cache, ttl: ttl, log: logger}
}

// Cache exposes the underlying store for locks and non-query state.
func (c *Client) Cache() Cache { return c.cache }

// TTL is the lifetime of cached reads.
func (c *Client) TTL() time.Duration { return c.ttl }

// Fetch returns the cached value for (scope, key) or calls load, caches its
// result, and returns it. Concurrent fetches of the same entry share one
// load. Load errors are never cached.
func Fetch[T any](ctx context.Context, c *Client, scope Scope, key Key, load func(context.Context) (T, error)) (T, error) {
	var zero T
	sk := storageKey(scope, key)

	if b, ok, err := c.cache.Get(ctx, sk); err != nil {
		c.log.Warn("query cache read failed; loading", zap.String("key", sk), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			metrics.CacheHit()
			return v, nil
		}
		_ = c.cache.Delete(ctx, sk)
	}
	metrics.CacheMiss()

	res, err, _ := c.group.Do(sk, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(v); err == nil {
			if err := c.cache.Set(ctx, sk, b, c.ttl); err != nil {
				c.log.Warn("query cache write failed", zap.String("key", sk), zap.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

// FetchShared caches a user-independent read in the shared scope.
func FetchShared[T any](ctx context.Context, c *Client, key Key, load func(context.Context) (T, error)) (T, error) {
	return Fetch(ctx, c, Shared, key, load)
}

// FetchPrivate caches a read in the calling user's scope. Without a user
// in ctx the read is not cached.
func FetchPrivate[T any](ctx context.Context, c *Client, key Key, load func(context.Context) (T, error)) (T, error) {
	email := UserFrom(ctx)
	if email == "" {
		return load(ctx)
	}
	return Fetch(ctx, c, UserScope(email), key, load)
}

// Invalidate drops keys and their extensions in every scope.
func (c *Client) Invalidate(ctx context.Context, keys ...Key) {
	for _, k := range keys {
		if err := c.cache.Invalidate(ctx, k); err != nil {
			c.log.Warn("query cache invalidation failed", zap.String("key", k.String()), zap.Error(err))
		}
	}
}

// Mutation describes a backend write and what it affects.
type Mutation struct {
	// Success is the notice shown when the write succeeds.
	Success string
	// Failure replaces the generic failure text when the backend sends none.
	Failure string
	// Invalidates lists the keys the write makes stale.
	Invalidates []Key
}

// Outcome is the user-facing result of a mutation.
type Outcome struct {
	OK      bool
	Message string
	Err     error
}

// Mutate runs write. On success it invalidates m.Invalidates and returns the
// success notice; on failure it returns the backend's message verbatim, or
// the generic text when there is none. No optimistic update is applied.
func (c *Client) Mutate(ctx context.Context, m Mutation, write func(context.Context) error) Outcome {
	if err := write(ctx); err != nil {
		fallback := m.Failure
		if fallback == "" {
			fallback = apiclient.GenericFailure
		}
		return Outcome{Message: apiclient.Message(err, fallback), Err: err}
	}
	c.Invalidate(ctx, m.Invalidates...)
	return Outcome{OK: true, Message: m.Success}
}
