// Package cache keeps per-user cart item counts so the cart badge does not
// hit the database on every request.
package cache

import (
	"context"
	"sync"
)

// CartCountCache is invalidated by every cart mutation and by settlement.
type CartCountCache interface {
	Get(ctx context.Context, userID int64) (int, bool, error)
	Set(ctx context.Context, userID int64, n int) error
	Invalidate(ctx context.Context, userID int64) error
}

type MemoryCache struct {
	mu    sync.RWMutex
	store map[int64]int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[int64]int),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID int64) (int, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.store[userID]
	return val, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, userID int64, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[userID] = n
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, userID)
	return nil
}
