package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache returns a cache whose clock only moves when advanced.
func newTestCache() (*LocalCache, func(time.Duration)) {
	c := NewCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "battle:result:1", `{"outcome":"win"}`, 0))
	v, err := c.Get(ctx, "battle:result:1")
	require.NoError(t, err)
	assert.Equal(t, `{"outcome":"win"}`, v)
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestCache()
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLExpiry(t *testing.T) {
	c, advance := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ttl_key", "val", time.Minute))
	advance(59 * time.Second)
	_, err := c.Get(ctx, "ttl_key")
	require.NoError(t, err)

	advance(2 * time.Second)
	_, err = c.Get(ctx, "ttl_key")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, c.Len(), "expired key should be dropped on read")
}

func TestSetRefreshesTTL(t *testing.T) {
	c, advance := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "old", time.Second))
	advance(2 * time.Second)
	require.NoError(t, c.Set(ctx, "k", "new", 0))
	advance(time.Hour)
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestDel(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Del(ctx, "a", "b", "never-set"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweep(t *testing.T) {
	c, advance := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "x", time.Second))
	require.NoError(t, c.Set(ctx, "long", "y", time.Hour))
	require.NoError(t, c.Set(ctx, "forever", "z", 0))

	assert.Equal(t, 0, c.Sweep())
	advance(time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 2, c.Len())

	advance(2 * time.Hour)
	assert.Equal(t, 1, c.Sweep())
	v, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "z", v)
}
