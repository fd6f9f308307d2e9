package querycache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when CLUBSPHERE_TEST_REDIS_ADDR points at a disposable redis.
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("CLUBSPHERE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLUBSPHERE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	prefix := "clubsphere-test:" + uuid.NewString() + ":"
	c := querycache.NewRedisCache(rdb, prefix)
	qc := querycache.New(c, time.Minute, nil)

	one := func(context.Context) (int, error) { return 1, nil }
	_, err := querycache.Fetch(ctx, qc, querycache.UserScope("a@x.com"), querycache.K("membership", "c1", "a@x.com"), one)
	require.NoError(t, err)
	_, err = querycache.Fetch(ctx, qc, querycache.Shared, querycache.K("membership", "c2"), one)
	require.NoError(t, err)

	ok, err := c.SetNX(ctx, "lock", []byte("x"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.SetNX(ctx, "lock", []byte("y"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Invalidate(ctx, querycache.K("membership", "c1")))

	keys, err := rdb.Keys(ctx, prefix+"*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 2, "expected c2 entry and the lock to remain")

	for _, k := range keys {
		_ = rdb.Del(ctx, k).Err()
	}
}
