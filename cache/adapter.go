package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Sephirode/realDesia/cache/local"
	cacheredis "github.com/Sephirode/realDesia/cache/redis"
	"github.com/Sephirode/realDesia/config"
)

// ErrNotFound is returned by Cache.Get when the key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a string KV store with per-key TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// Sweeper is implemented by caches whose expired keys must be purged
// periodically. Redis expires keys on its own and does not implement it.
type Sweeper interface {
	Sweep() int
}

// Open returns the Cache and PubSub for cfg. With RedisAddr set both
// share one Redis connection pool; otherwise both are in-process.
func Open(cfg config.CacheConfig) (Cache, PubSub, error) {
	if cfg.RedisAddr != "" {
		rc, err := cacheredis.Dial(redisConfig(cfg))
		if err != nil {
			return nil, nil, err
		}
		return &cacheAdapter{c: rc, notFound: cacheredis.ErrNotFound}, &redisPubSubAdapter{c: rc}, nil
	}
	return newLocalCache(), &localPubSubAdapter{ps: local.NewPubSub(cfg.LocalPubSubBuf)}, nil
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	if cfg.RedisAddr != "" {
		rc, err := cacheredis.Dial(redisConfig(cfg))
		if err != nil {
			return nil, err
		}
		return &cacheAdapter{c: rc, notFound: cacheredis.ErrNotFound}, nil
	}
	return newLocalCache(), nil
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set,
// otherwise an in-process LocalPubSub.
func NewPubSub(cfg config.CacheConfig) (PubSub, error) {
	if cfg.RedisAddr != "" {
		rc, err := cacheredis.Dial(redisConfig(cfg))
		if err != nil {
			return nil, err
		}
		return &redisPubSubAdapter{c: rc}, nil
	}
	return &localPubSubAdapter{ps: local.NewPubSub(cfg.LocalPubSubBuf)}, nil
}

func redisConfig(cfg config.CacheConfig) cacheredis.Config {
	return cacheredis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func newLocalCache() *localCacheAdapter {
	lc := local.NewCache()
	return &localCacheAdapter{cacheAdapter: cacheAdapter{c: lc, notFound: local.ErrNotFound}, lc: lc}
}

// ---- adapters to bridge sub-package types to the cache package ----

type cacheAdapter struct {
	c        Cache
	notFound error
}

func (a *cacheAdapter) Get(ctx context.Context, key string) (string, error) {
	v, err := a.c.Get(ctx, key)
	if errors.Is(err, a.notFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (a *cacheAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}

func (a *cacheAdapter) Del(ctx context.Context, keys ...string) error {
	return a.c.Del(ctx, keys...)
}

type localCacheAdapter struct {
	cacheAdapter
	lc *local.LocalCache
}

func (a *localCacheAdapter) Sweep() int { return a.lc.Sweep() }

type localPubSubAdapter struct {
	ps *local.LocalPubSub
}

func (a *localPubSubAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *localPubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	return bridge(in, func(m *local.LocalMessage) *Message {
		return &Message{Channel: m.Channel, Payload: m.Payload}
	}), cancel, nil
}

type redisPubSubAdapter struct {
	c *cacheredis.Client
}

func (a *redisPubSubAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.c.Publish(ctx, channel, message)
}

func (a *redisPubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.c.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	return bridge(in, func(m *cacheredis.Message) *Message {
		return &Message{Channel: m.Channel, Payload: m.Payload}
	}), cancel, nil
}

// bridge converts messages until in is closed. The output channel closes
// with it, which is how subscribers see an unsubscribe.
func bridge[T any](in <-chan T, conv func(T) *Message) <-chan *Message {
	out := make(chan *Message, cap(in))
	go func() {
		defer close(out)
		for msg := range in {
			out <- conv(msg)
		}
	}()
	return out
}
