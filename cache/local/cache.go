package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

type entry struct {
	data     string
	expireAt time.Time // zero = never
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache is an in-process string KV store with per-key TTL. Expired
// keys are dropped on read and in bulk by Sweep; it runs no goroutine of
// its own.
type LocalCache struct {
	mu  sync.RWMutex
	kv  map[string]entry
	now func() time.Time
}

// NewCache creates an empty LocalCache.
func NewCache() *LocalCache {
	return &LocalCache{kv: make(map[string]entry), now: time.Now}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the key.
		if cur, ok := c.kv[key]; ok && cur.expired(c.now()) {
			delete(c.kv, key)
		}
		c.mu.Unlock()
		return "", ErrNotFound
	}
	return e.data, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{data: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	c.mu.Unlock()
	return nil
}

// Sweep deletes every expired key and returns how many were removed.
func (c *LocalCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.kv {
		if e.expired(now) {
			delete(c.kv, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored keys, expired or not.
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kv)
}
