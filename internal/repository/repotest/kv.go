package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/nb2912/inventory/internal/dto"
)

// Cache is an in-memory key/value cache without expiry.
// OnDel, when set, runs after every Del with the deleted keys.
type Cache struct {
	mu    sync.Mutex
	data  map[string][]byte
	OnDel func(keys []string)
}

func NewCache() *Cache { return &Cache{data: map[string][]byte{}} }

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.data, k)
	}
	hook := c.OnDel
	c.mu.Unlock()
	if hook != nil {
		hook(keys)
	}
	return nil
}

func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// TokenStore records revoked token ids.
type TokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenStore() *TokenStore { return &TokenStore{revoked: map[string]time.Time{}} }

func (t *TokenStore) Revoke(_ context.Context, jti string, until time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = until
	return nil
}

func (t *TokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.revoked[jti]
	return ok, nil
}

// Notifier collects low-stock events instead of enqueueing them.
type Notifier struct {
	mu     sync.Mutex
	Events []dto.LowStockEvent
}

func (n *Notifier) EnqueueLowStock(_ context.Context, ev dto.LowStockEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, ev)
	return nil
}

func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Events)
}
