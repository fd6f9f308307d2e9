package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MaxTTL bounds every entry in the memory cache.
const MaxTTL = 24 * time.Hour

type memEntry struct {
	val []byte
	exp time.Time
}

// MemoryCache is a size-bounded in-process cache.
type MemoryCache struct {
	lru *expirable.LRU[string, memEntry]
	mu  sync.Mutex // serializes SetNX
	now func() time.Time
}

// NewMemoryCache creates a cache holding at most size entries.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, memEntry](size, nil, MaxTTL),
		now: time.Now,
	}
}

var _ Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && !m.now().Before(e.exp) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.lru.Add(key, m.entry(val, ttl))
	return nil
}

func (m *MemoryCache) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok, _ := m.Get(ctx, key); ok {
		return false, nil
	}
	m.lru.Add(key, m.entry(val, ttl))
	return true, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, key Key) error {
	for _, sk := range m.lru.Keys() {
		if key.Covers(splitStorageKey(sk)) {
			m.lru.Remove(sk)
		}
	}
	return nil
}

func (m *MemoryCache) Close() error {
	m.lru.Purge()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int { return m.lru.Len() }

func (m *MemoryCache) entry(val []byte, ttl time.Duration) memEntry {
	if ttl <= 0 || ttl > MaxTTL {
		ttl = MaxTTL
	}
	return memEntry{val: val, exp: m.now().Add(ttl)}
}
