package scheduler

import (
	"context"
	"time"

	"github.com/Sephirode/realDesia/game/player"
	"go.uber.org/zap"
)

// AutosaveTask is the ticker name used by RegisterAutosave.
const AutosaveTask = "session_autosave"

// RegisterAutosave persists every live session on each interval tick.
// A non-positive interval disables autosave.
func RegisterAutosave(s *Scheduler, sm *player.SessionManager, store *player.Store, interval time.Duration) {
	if interval <= 0 {
		s.logger.Info("session autosave disabled")
		return
	}
	s.AddTicker(AutosaveTask, interval, func(ctx context.Context) {
		n, err := sm.SaveAll(ctx, store)
		if err != nil {
			s.logger.Warn("session autosave failed", zap.Int("saved", n), zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Debug("sessions autosaved", zap.Int("saved", n))
		}
	})
}
