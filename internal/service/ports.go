package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Cache is a byte-oriented key/value cache (Redis in production).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// TokenStore keeps the ids of revoked bearer tokens until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LowStockNotifier schedules a low-stock notification.
type LowStockNotifier interface {
	EnqueueLowStock(ctx context.Context, ev dto.LowStockEvent) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

const itemCacheTTL = 10 * time.Minute

// ItemCacheKey is the cache key of an item looked up by serial number.
func ItemCacheKey(serialNo string) string { return "item:serial:" + serialNo }

// itemCache wraps an optional Cache. Cache failures are logged and ignored.
type itemCache struct{ c Cache }

func (ic itemCache) get(ctx context.Context, serialNo string) (*dto.ItemResponse, bool) {
	if ic.c == nil {
		return nil, false
	}
	raw, ok, err := ic.c.Get(ctx, ItemCacheKey(serialNo))
	if err != nil {
		log.Warn().Err(err).Str("serial_no", serialNo).Msg("item cache: get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp dto.ItemResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (ic itemCache) put(ctx context.Context, resp *dto.ItemResponse) {
	if ic.c == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := ic.c.Set(ctx, ItemCacheKey(resp.SerialNo), raw, itemCacheTTL); err != nil {
		log.Warn().Err(err).Str("serial_no", resp.SerialNo).Msg("item cache: set failed")
	}
}

// evict drops cached lookups. Writers call it once while holding the row lock
// and again after commit, so a read that raced the transaction cannot leave
// the old row cached.
func (ic itemCache) evict(ctx context.Context, serials ...string) {
	if ic.c == nil || len(serials) == 0 {
		return
	}
	keys := make([]string, len(serials))
	for i, s := range serials {
		keys[i] = ItemCacheKey(s)
	}
	if err := ic.c.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("item cache: evict failed")
	}
}

// lowStockAlerts schedules a notification for every item that dropped below
// its own alert threshold. Best effort: failures are only logged.
type lowStockAlerts struct{ n LowStockNotifier }

func (a lowStockAlerts) crossed(ctx context.Context, before int, after *model.Item) {
	if a.n == nil || after.AlertThreshold == nil {
		return
	}
	threshold := *after.AlertThreshold
	if before < threshold || after.Quantity >= threshold {
		return
	}
	ev := dto.LowStockEvent{
		ItemID:    after.ID.String(),
		SerialNo:  after.SerialNo,
		Name:      after.Name,
		Quantity:  after.Quantity,
		Threshold: threshold,
	}
	if err := a.n.EnqueueLowStock(ctx, ev); err != nil {
		log.Warn().Err(err).Str("serial_no", ev.SerialNo).Msg("low stock: enqueue failed")
	}
}
