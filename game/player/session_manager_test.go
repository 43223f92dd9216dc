package player_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Sephirode/realDesia/game/player"
	"github.com/Sephirode/realDesia/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionManager_Registry(t *testing.T) {
	sm := player.NewSessionManager(zap.NewNop())
	s := newWarrior(t)

	sm.Register(s)
	assert.Equal(t, 1, sm.Count())
	assert.Same(t, s, sm.Get(s.ID()))
	assert.Len(t, sm.All(), 1)

	sm.Register(s)
	assert.Equal(t, 1, sm.Count(), "re-register replaces")

	sm.Unregister(s.ID())
	assert.Nil(t, sm.Get(s.ID()))
	assert.Zero(t, sm.Count())
}

func TestSessionManager_With(t *testing.T) {
	sm := player.NewSessionManager(nil)
	s := newWarrior(t)
	sm.Register(s)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sm.With(s.ID(), func(s *player.Session) error {
				s.AddGold(1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), s.Gold())

	boom := errors.New("boom")
	assert.ErrorIs(t, sm.With(s.ID(), func(*player.Session) error { return boom }), boom)
	assert.ErrorIs(t, sm.With("missing", func(*player.Session) error { return nil }), player.ErrNotFound)
}

func TestSessionManager_SaveAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cat := testutil.Catalog(t)
	store := player.NewStore(db, cat)
	sm := player.NewSessionManager(nil)
	for range 3 {
		s, err := player.NewSession(cat, "Mage", "")
		require.NoError(t, err)
		sm.Register(s)
	}

	n, err := sm.SaveAll(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sm.SaveAll(ctx, store)
	assert.ErrorIs(t, err, context.Canceled)
}
