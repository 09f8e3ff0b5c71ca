//go:build integration

package infra

// Run with: go test -tags integration ./internal/infra/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestRedisCacheAndTokenStore(t *testing.T) {
	rdb, err := NewRedis(startRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	cache := NewRedisCache(rdb)
	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, cache.Del(ctx, "k"))
	_, ok, _ = cache.Get(ctx, "k")
	assert.False(t, ok)

	tokens := NewRedisTokenStore(rdb)
	require.NoError(t, tokens.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := tokens.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedPrefix+"jti-1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	// Already-expired tokens are not stored
	require.NoError(t, tokens.Revoke(ctx, "jti-2", time.Now().Add(-time.Second)))
	revoked, err = tokens.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
