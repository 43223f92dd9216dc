package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Outcome is how a battle ended.
type Outcome int

// BattleResult constants.
const (
	ResultWin Outcome = iota
	ResultEscape
	ResultLose
)

func (o Outcome) String() string {
	switch o {
	case ResultWin:
		return "win"
	case ResultEscape:
		return "escape"
	case ResultLose:
		return "lose"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// TurnOutcome is the result of one player turn.
type TurnOutcome int

const (
	NoTurn TurnOutcome = iota
	TurnSpent
	TurnEscaped
)

// ErrTooManyPrompts is returned when the input layer keeps choosing
// actions that do not spend the turn.
var ErrTooManyPrompts = errors.New("battle: too many prompts without a spent turn")

// Rules holds the tunable battle constants.
type Rules struct {
	Policy         EnemyPolicy
	EscapePerSpeed int
}

// DefaultRules is a 40% enemy skill chance at 5 MP and 2% escape per
// point of speed difference.
var DefaultRules = Rules{Policy: DefaultEnemyPolicy, EscapePerSpeed: 2}

// BattleConfig configures a BattleInstance.
type BattleConfig struct {
	ID         string
	Player     PlayerCombatant
	Enemy      *EnemyBattler
	Input      ActionSource
	Items      ItemUser // nil = no items usable
	Rules      *Rules   // nil = DefaultRules; zero fields are used as given
	MaxPrompts int      // 0 = 10
	Logger     *zap.Logger
	RNG        RNG         // injectable for testing
	TurnMgr    TurnManager // nil = DefaultTurnManager
	Events     EventSink   // nil = discard
}

// BattleResult summarises a finished battle.
type BattleResult struct {
	ID      string   `json:"battle_id"`
	Outcome Outcome  `json:"outcome"`
	Rounds  int      `json:"rounds"`
	Rewards Rewards  `json:"rewards"`
	Logs    []string `json:"logs"`
}

// BattleInstance drives one battle between a player and an enemy. It owns
// both combatants for the duration of Run and is not safe for concurrent use.
type BattleInstance struct {
	id     string
	player PlayerCombatant
	enemy  *EnemyBattler

	input          ActionSource
	items          ItemUser
	policy         EnemyPolicy
	escapePerSpeed int
	maxPrompts     int

	logger  *zap.Logger
	rng     RNG
	turnMgr TurnManager
	events  EventSink
	skills  *SkillEngine

	round int
	logs  []string
}

// NewBattleInstance creates a battle instance.
func NewBattleInstance(cfg BattleConfig) (*BattleInstance, error) {
	if isNil(cfg.Player) || cfg.Enemy == nil {
		return nil, ErrNilCombatant
	}
	if cfg.Input == nil {
		return nil, errors.New("battle: nil action source")
	}
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TurnMgr == nil {
		cfg.TurnMgr = DefaultTurnManager{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Events == nil {
		cfg.Events = discardSink{}
	}
	rules := DefaultRules
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	if cfg.MaxPrompts == 0 {
		cfg.MaxPrompts = 10
	}
	logger := cfg.Logger.With(zap.String("battle_id", cfg.ID))
	return &BattleInstance{
		id:             cfg.ID,
		player:         cfg.Player,
		enemy:          cfg.Enemy,
		input:          cfg.Input,
		items:          cfg.Items,
		policy:         rules.Policy,
		escapePerSpeed: rules.EscapePerSpeed,
		maxPrompts:     cfg.MaxPrompts,
		logger:         logger,
		rng:            cfg.RNG,
		turnMgr:        cfg.TurnMgr,
		events:         cfg.Events,
		skills:         NewSkillEngine(cfg.RNG, logger),
	}, nil
}

// ID returns the battle id.
func (b *BattleInstance) ID() string { return b.id }

// Run executes the battle main loop until one side wins or the player
// escapes. Statuses and shields are reset on both sides before the first
// round and again when Run returns, whatever the outcome.
func (b *BattleInstance) Run(ctx context.Context) (BattleResult, error) {
	ResetForBattle(b.player)
	ResetForBattle(b.enemy)
	defer func() {
		ResetForBattle(b.player)
		ResetForBattle(b.enemy)
	}()

	b.emit(&EventBattleStart{
		BattleID: b.id,
		Player:   SnapshotBattler(b.player),
		Enemy:    SnapshotBattler(b.enemy),
		Boss:     b.enemy.IsBoss(),
	})

	for {
		if err := ctx.Err(); err != nil {
			return b.abort(err)
		}
		b.round++
		playerFirst := b.turnMgr.PlayerFirst(b.player, b.enemy)
		b.logger.Debug("battle turn start", zap.Int("round", b.round), zap.Bool("player_first", playerFirst))
		b.emit(&EventTurnStart{Round: b.round, PlayerFirst: playerFirst})

		if playerFirst {
			if res, done, err := b.playerStep(ctx); done {
				return res, err
			}
			b.enemyTurn()
			if res, done := b.decided(); done {
				return res, nil
			}
		} else {
			b.enemyTurn()
			if res, done := b.decided(); done {
				return res, nil
			}
			if res, done, err := b.playerStep(ctx); done {
				return res, err
			}
		}

		// Both sides survived the round.
		pDot := ApplyEndPhase(b.player)
		eDot := ApplyEndPhase(b.enemy)
		if pDot > 0 {
			b.log(fmt.Sprintf("%s suffers %d damage from status effects.", b.player.Name(), pDot))
		}
		if eDot > 0 {
			b.log(fmt.Sprintf("%s suffers %d damage from status effects.", b.enemy.Name(), eDot))
		}
		b.emit(&EventTurnEnd{
			Round:     b.round,
			PlayerDOT: pDot,
			EnemyDOT:  eDot,
			Player:    SnapshotBattler(b.player),
			Enemy:     SnapshotBattler(b.enemy),
		})
		if res, done := b.decided(); done {
			return res, nil
		}
	}
}

// playerStep runs the player's turn and reports whether the battle is over.
func (b *BattleInstance) playerStep(ctx context.Context) (BattleResult, bool, error) {
	out, err := b.playerTurn(ctx)
	if err != nil {
		res, err := b.abort(err)
		return res, true, err
	}
	if out == TurnEscaped {
		return b.finish(ResultEscape), true, nil
	}
	res, done := b.decided()
	return res, done, nil
}

// decided ends the battle once either side is at 0 HP. The player's
// defeat takes precedence when both fall to the same action.
func (b *BattleInstance) decided() (BattleResult, bool) {
	switch {
	case !IsAlive(b.player):
		return b.finish(ResultLose), true
	case !IsAlive(b.enemy):
		return b.finish(ResultWin), true
	}
	return BattleResult{}, false
}

// abort ends a battle that could not be resolved. Subscribers receive
// battle_aborted as the terminal event.
func (b *BattleInstance) abort(err error) (BattleResult, error) {
	b.logger.Debug("battle aborted", zap.Int("rounds", b.round), zap.Error(err))
	b.emit(&EventBattleAborted{Rounds: b.round, Reason: err.Error()})
	return b.result(ResultLose), err
}

// playerTurn prompts until an action spends the turn or ends the battle.
func (b *BattleInstance) playerTurn(ctx context.Context) (TurnOutcome, error) {
	if k, blocked := BlockReason(b.player); blocked {
		b.actionResult(b.player.Name(), "blocked", true, []string{fmt.Sprintf("%s cannot act (%s).", b.player.Name(), k)})
		return TurnSpent, nil
	}

	for range b.maxPrompts {
		action, err := b.input.NextAction(ctx, b.view())
		if err != nil {
			return NoTurn, err
		}
		out, logs, err := b.resolvePlayerAction(action)
		if err != nil {
			return NoTurn, err
		}
		b.actionResult(b.player.Name(), action.String(), out != NoTurn, logs)
		if out != NoTurn {
			return out, nil
		}
	}
	return NoTurn, ErrTooManyPrompts
}

func (b *BattleInstance) resolvePlayerAction(action Action) (TurnOutcome, []string, error) {
	p, e := b.player, b.enemy
	switch action.Type {
	case ActionAttack:
		raw := float64(max(1, p.Stats().Attack))
		dr := DealDamage(p, e, raw, PhysicalDamage, 1)
		return TurnSpent, []string{hitLine(p.Name(), e.Name(), dr)}, nil

	case ActionSkill:
		def, ok := p.KnownSkill(action.Skill)
		if !ok {
			return NoTurn, []string{fmt.Sprintf("%s does not know %s.", p.Name(), action.Skill)}, nil
		}
		r, err := b.skills.Cast(def, p, e, action.MPCostOverride)
		if err != nil {
			return NoTurn, nil, err
		}
		if !r.SpentTurn {
			return NoTurn, r.Logs, nil
		}
		return TurnSpent, r.Logs, nil

	case ActionItem:
		if b.items == nil {
			return NoTurn, []string{"No usable items."}, nil
		}
		r, err := b.items.UseInBattle(action.Item, e, b.skills)
		if err != nil {
			return NoTurn, nil, err
		}
		switch {
		case r.Escaped:
			return TurnEscaped, r.Logs, nil
		case r.SpentTurn:
			return TurnSpent, r.Logs, nil
		}
		return NoTurn, r.Logs, nil

	case ActionEscape:
		chance := EscapeChance(p.Stats().Speed, e.Stats().Speed, b.escapePerSpeed)
		if RollEscape(chance, b.rng) {
			return TurnEscaped, []string{fmt.Sprintf("%s escaped!", p.Name())}, nil
		}
		return TurnSpent, []string{fmt.Sprintf("%s failed to escape (%d%%).", p.Name(), chance)}, nil
	}
	return NoTurn, nil, fmt.Errorf("battle: unknown action type %d", action.Type)
}

func (b *BattleInstance) enemyTurn() {
	e, p := b.enemy, b.player
	if k, blocked := BlockReason(e); blocked {
		b.actionResult(e.Name(), "blocked", true, []string{fmt.Sprintf("%s cannot act (%s).", e.Name(), k)})
		return
	}
	move := b.policy.Choose(e, b.rng)
	if move == EnemySkill {
		e.SetMP(float64(e.MP() - b.policy.SkillMPCost))
	}
	raw, dt := b.policy.Raw(move, e)
	dr := DealDamage(e, p, raw, dt, 1)
	logs := []string{hitLine(e.Name(), p.Name(), dr)}
	if move == EnemySkill {
		logs[0] = fmt.Sprintf("%s casts a spell. %s", e.Name(), logs[0])
	}
	b.actionResult(e.Name(), move.String(), true, logs)
}

func hitLine(attacker, target string, dr DamageResult) string {
	if dr.Absorbed > 0 {
		return fmt.Sprintf("%s hits %s for %d damage (%d absorbed by shield).", attacker, target, dr.HPDamage, dr.Absorbed)
	}
	return fmt.Sprintf("%s hits %s for %d damage.", attacker, target, dr.HPDamage)
}

func (b *BattleInstance) finish(outcome Outcome) BattleResult {
	res := b.result(outcome)
	if outcome == ResultWin {
		res.Rewards = CalculateRewards(b.enemy.Level(), b.enemy.IsBoss())
	}
	b.logger.Debug("battle end",
		zap.Stringer("outcome", outcome),
		zap.Int("rounds", b.round),
		zap.Int("exp", res.Rewards.Exp),
		zap.Int("gold", res.Rewards.Gold))
	b.emit(&EventBattleEnd{Result: outcome, Rounds: b.round, Exp: res.Rewards.Exp, Gold: res.Rewards.Gold})
	return res
}

func (b *BattleInstance) result(outcome Outcome) BattleResult {
	return BattleResult{ID: b.id, Outcome: outcome, Rounds: b.round, Logs: b.logs}
}

func (b *BattleInstance) view() BattleView {
	return BattleView{Round: b.round, Player: SnapshotBattler(b.player), Enemy: SnapshotBattler(b.enemy)}
}

func (b *BattleInstance) actionResult(actor, action string, spent bool, logs []string) {
	for _, l := range logs {
		b.log(l)
	}
	b.emit(&EventActionResult{
		Round:     b.round,
		Actor:     actor,
		Action:    action,
		SpentTurn: spent,
		Logs:      logs,
		Player:    SnapshotBattler(b.player),
		Enemy:     SnapshotBattler(b.enemy),
	})
}

func (b *BattleInstance) log(line string) {
	b.logs = append(b.logs, line)
}

func (b *BattleInstance) emit(evt BattleEvent) {
	b.events.Emit(evt)
}
