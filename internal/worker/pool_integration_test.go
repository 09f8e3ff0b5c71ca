//go:build integration

package worker

// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nb2912/inventory/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPool_DeliversAndDeadLetters(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delivered, failed atomic.Int32
	pool := NewPool(rdb, map[string]Handler{
		JobLowStock: handlerFunc(func(_ context.Context, payload json.RawMessage) error {
			var ev dto.LowStockEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return err
			}
			if ev.SerialNo == "BAD" {
				failed.Add(1)
				return errors.New("always fails")
			}
			delivered.Add(1)
			return nil
		}),
	}, QueueLowStock)
	pool.RetryBackoff = 10 * time.Millisecond
	pool.Start(ctx, 2)

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueLowStock(ctx, dto.LowStockEvent{SerialNo: "OK"}))
	require.NoError(t, d.EnqueueLowStock(ctx, dto.LowStockEvent{SerialNo: "BAD"}))

	assert.Eventually(t, func() bool {
		n, err := DeadLetterCount(ctx, rdb, QueueLowStock)
		return err == nil && n == 1
	}, 20*time.Second, 100*time.Millisecond)
	assert.Equal(t, int32(1), delivered.Load())
	assert.Equal(t, int32(MaxAttempts), failed.Load())

	cancel()
	pool.Wait()
}
