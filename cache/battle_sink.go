package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Sephirode/realDesia/game/battle"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// BattleChannel returns the pub/sub channel carrying a battle's events.
func BattleChannel(battleID string) string { return "battle:" + battleID }

// BattleResultKey returns the cache key holding a finished battle's result.
func BattleResultKey(battleID string) string { return "battle:result:" + battleID }

// BattleEnvelope is the JSON wire form of one battle event.
type BattleEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BattlePublisher is a battle.EventSink that publishes every event as a
// BattleEnvelope on BattleChannel(id). Publish failures are logged and
// never reach the battle.
type BattlePublisher struct {
	ps      PubSub
	channel string
	logger  *zap.Logger
}

// NewBattlePublisher creates a sink for one battle.
func NewBattlePublisher(ps PubSub, battleID string, logger *zap.Logger) *BattlePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattlePublisher{
		ps:      ps,
		channel: BattleChannel(battleID),
		logger:  logger.With(zap.String("battle_id", battleID)),
	}
}

func (p *BattlePublisher) Emit(evt battle.BattleEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn("battle event marshal failed", zap.String("type", evt.EventType()), zap.Error(err))
		return
	}
	msg, err := json.Marshal(BattleEnvelope{Type: evt.EventType(), Data: data})
	if err != nil {
		p.logger.Warn("battle envelope marshal failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.ps.Publish(ctx, p.channel, string(msg)); err != nil {
		p.logger.Warn("battle event dropped", zap.String("type", evt.EventType()), zap.Error(err))
	}
}
