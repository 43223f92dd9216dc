package rest

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/Sephirode/realDesia/audit"
	"github.com/Sephirode/realDesia/cache"
	"github.com/Sephirode/realDesia/game/battle"
	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultResultTTL = time.Hour

type startBattleRequest struct {
	Enemy    string   `json:"enemy" binding:"required"`
	MinLevel int      `json:"min_level"`
	MaxLevel int      `json:"max_level"`
	Actions  []string `json:"actions"`
	Seed     *int64   `json:"seed"`
	// BattleID lets a client subscribe to the event stream before the
	// battle starts. Must be a UUID; generated when empty.
	BattleID string `json:"battle_id"`
}

type enemyView struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Boss  bool   `json:"boss"`
}

type battleResponse struct {
	battle.BattleResult
	Enemy    enemyView        `json:"enemy"`
	Seed     int64            `json:"seed"`
	LevelUps []player.LevelUp `json:"level_ups,omitempty"`
	Session  sessionView      `json:"session"`
}

// scriptSource replays the requested actions, then keeps attacking so a
// battle always reaches an outcome.
type scriptSource struct {
	actions []battle.Action
	pos     int
}

func (s *scriptSource) NextAction(ctx context.Context, _ battle.BattleView) (battle.Action, error) {
	if err := ctx.Err(); err != nil {
		return battle.Action{}, err
	}
	if s.pos < len(s.actions) {
		a := s.actions[s.pos]
		s.pos++
		return a, nil
	}
	return battle.Action{Type: battle.ActionAttack}, nil
}

// StartBattle handles POST /api/sessions/:id/battles. The battle runs to
// completion within the request; events are published on the battle's
// channel as they happen.
func (h *Handler) StartBattle(c *gin.Context) {
	var req startBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def, err := h.catalog.Enemy(req.Enemy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	actions := make([]battle.Action, 0, len(req.Actions))
	for _, raw := range req.Actions {
		a, err := battle.ParseAction(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		actions = append(actions, a)
	}
	battleID := req.BattleID
	if battleID == "" {
		battleID = uuid.NewString()
	} else if _, err := uuid.Parse(battleID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "battle_id must be a UUID"})
		return
	}
	minLevel, maxLevel := req.MinLevel, req.MaxLevel
	if minLevel == 0 && maxLevel == 0 {
		minLevel, maxLevel = def.BaseLevel, def.BaseLevel
	} else if maxLevel == 0 {
		maxLevel = minLevel
	}
	seed := h.seed(req.Seed)

	var (
		resp    battleResponse
		aborted *abortedBattle
	)
	sessionID := c.Param("id")
	err = h.sessions.With(sessionID, func(s *player.Session) error {
		if s.HP() <= 0 {
			return errDefeated
		}
		rng := rand.New(rand.NewSource(seed))
		enemy := battle.SpawnEnemy(def, minLevel, maxLevel, rng)
		inst, err := battle.NewBattleInstance(battle.BattleConfig{
			ID:     battleID,
			Player: s,
			Enemy:  enemy,
			Input:  &scriptSource{actions: actions},
			Items:  item.NewBattleItems(h.items, s),
			Rules: &battle.Rules{
				Policy: battle.EnemyPolicy{
					SkillMPCost: h.battle.EnemySkillMPCost,
					SkillChance: h.battle.EnemySkillChance,
				},
				EscapePerSpeed: h.battle.EscapePerSpeed,
			},
			MaxPrompts: h.battle.MaxPrompts,
			Logger:     h.logger,
			RNG:        rng,
			Events:     cache.NewBattlePublisher(h.pubsub, battleID, h.logger),
		})
		if err != nil {
			return err
		}
		result, err := inst.Run(c.Request.Context())
		if err != nil {
			aborted = &abortedBattle{ID: battleID, Outcome: "aborted", Rounds: result.Rounds, Error: err.Error()}
			return fmt.Errorf("battle %s: %w", battleID, err)
		}
		if result.Outcome == battle.ResultWin {
			if resp.LevelUps, err = s.ApplyRewards(result.Rewards); err != nil {
				return err
			}
		}
		resp.BattleResult = result
		resp.Enemy = enemyView{Name: enemy.Name(), Level: enemy.Level(), Boss: enemy.IsBoss()}
		resp.Seed = seed
		resp.Session = viewOf(s)
		return nil
	})
	if err != nil {
		if aborted != nil {
			h.storeResult(context.WithoutCancel(c.Request.Context()), battleID, aborted)
		}
		abortWithError(c, err)
		return
	}

	h.record(c.Request.Context(), sessionID, resp)
	c.JSON(http.StatusOK, resp)
}

// GetBattle handles GET /api/battles/:battle_id.
func (h *Handler) GetBattle(c *gin.Context) {
	stored, err := h.cache.Get(c.Request.Context(), cache.BattleResultKey(c.Param("battle_id")))
	if errors.Is(err, cache.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "battle not found"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(stored))
}

// record stores the result for GetBattle and queues the battle log.
// Failures are logged; the battle itself has already happened.
func (h *Handler) record(ctx context.Context, sessionID string, resp battleResponse) {
	if h.audit != nil {
		h.audit.LogBattle(audit.BattleEntry{
			BattleID:   resp.ID,
			SessionID:  sessionID,
			Enemy:      resp.Enemy.Name,
			EnemyLevel: resp.Enemy.Level,
			Boss:       resp.Enemy.Boss,
			Outcome:    resp.Outcome.String(),
			Rounds:     resp.Rounds,
			Exp:        resp.Rewards.Exp,
			Gold:       resp.Rewards.Gold,
			Lines:      resp.Logs,
		})
	}

	h.storeResult(ctx, resp.ID, resp)
}

// abortedBattle is stored for a battle that ended without an outcome, so
// late stream subscribers and GetBattle do not wait on it.
type abortedBattle struct {
	ID      string `json:"battle_id"`
	Outcome string `json:"outcome"`
	Rounds  int    `json:"rounds"`
	Error   string `json:"error"`
}

func (h *Handler) storeResult(ctx context.Context, battleID string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("battle result marshal failed", zap.String("battle_id", battleID), zap.Error(err))
		return
	}
	ttl := defaultResultTTL
	if h.game.BattleResultTTLS > 0 {
		ttl = time.Duration(h.game.BattleResultTTLS) * time.Second
	}
	if err := h.cache.Set(ctx, cache.BattleResultKey(battleID), string(body), ttl); err != nil {
		h.logger.Warn("battle result not cached", zap.String("battle_id", battleID), zap.Error(err))
	}
}

// seed picks the battle RNG seed: the request's, then the configured one,
// then a fresh random value.
func (h *Handler) seed(requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	if h.battle.RNGSeed != 0 {
		return h.battle.RNGSeed
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
