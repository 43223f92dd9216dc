package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweep task names used by main.
const (
	CacheSweepTask     = "cache_sweep"
	RateLimitSweepTask = "rate_limit_sweep"
)

// RegisterSweep runs sweep on every interval tick and logs how many
// entries it dropped. A non-positive interval or nil sweep disables it.
func RegisterSweep(s *Scheduler, name string, interval time.Duration, sweep func() int) {
	if interval <= 0 || sweep == nil {
		s.logger.Info("sweep disabled", zap.String("task", name))
		return
	}
	s.AddTicker(name, interval, func(context.Context) {
		if n := sweep(); n > 0 {
			s.logger.Debug("swept", zap.String("task", name), zap.Int("removed", n))
		}
	})
}
