// Package querycache caches backend reads by resource key, coalesces
// identical concurrent reads, and invalidates keys after successful writes.
package querycache

import (
	"context"
	"time"
)

// Cache is a byte cache with per-entry TTLs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// SetNX stores val only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	// Invalidate removes, in every scope, the entries for key and for all
	// keys that extend it.
	Invalidate(ctx context.Context, key Key) error
	Close() error
}
