package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sephirode/realDesia/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keepaliveEvery = 30 * time.Second
)

// terminal lists the event types after which a battle publishes nothing.
var terminal = map[string]bool{"battle_end": true, "battle_aborted": true}

// Handler streams battle events over server-sent events.
type Handler struct {
	pubsub cache.PubSub
	c      cache.Cache
	logger *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(pubsub cache.PubSub, c cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pubsub: pubsub, c: c, logger: logger}
}

// ServeBattle handles GET /api/battles/:battle_id/events.
// Subscribe before starting the battle with the same id; every event is
// written as "event: <type>" with its JSON payload and the stream closes
// after battle_end or battle_aborted. A battle that already finished yields its stored
// result as a single "result" event.
func (h *Handler) ServeBattle(c *gin.Context) {
	battleID := c.Param("battle_id")
	if _, err := uuid.Parse(battleID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid battle id"})
		return
	}

	subCtx, subCancel := context.WithCancel(c.Request.Context())
	defer subCancel()

	msgCh, unsub, err := h.pubsub.Subscribe(subCtx, cache.BattleChannel(battleID))
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Checked after subscribing so a battle finishing in between is not missed.
	if stored, err := h.c.Get(subCtx, cache.BattleResultKey(battleID)); err == nil {
		writeEvent(c, "result", stored)
		return
	} else if !errors.Is(err, cache.ErrNotFound) {
		h.logger.Warn("battle result lookup failed", zap.String("battle_id", battleID), zap.Error(err))
	}

	writeEvent(c, "connected", "{}")

	ticker := time.NewTicker(keepaliveEvery)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			var env cache.BattleEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("malformed battle event", zap.String("battle_id", battleID), zap.Error(err))
				continue
			}
			writeEvent(c, env.Type, string(env.Data))
			if terminal[env.Type] {
				return
			}

		case <-ticker.C:
			// Keepalive comment to prevent proxy timeouts.
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-subCtx.Done():
			return
		}
	}
}

func writeEvent(c *gin.Context, event, data string) {
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
	c.Writer.Flush()
}
