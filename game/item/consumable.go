package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sephirode/realDesia/game/battle"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/Sephirode/realDesia/resource"
	"go.uber.org/zap"
)

var (
	// ErrNotOwned is returned when the item is not in the inventory.
	ErrNotOwned = errors.New("item: not in inventory")
	// ErrNotUsable is returned when the item cannot be used in the current context.
	ErrNotUsable = errors.New("item: cannot be used here")
	// ErrUseFailed is returned when applying the item failed; the item is refunded.
	ErrUseFailed = errors.New("item: use failed")
)

// Result is the outcome of one consumable use.
type Result struct {
	Item      string           `json:"item"`
	SpentTurn bool             `json:"spent_turn"`
	Escaped   bool             `json:"escaped"`
	Logs      []string         `json:"logs"`
	LevelUps  []player.LevelUp `json:"level_ups,omitempty"`
}

// Engine applies consumable effects to a player session.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// UseOutOfBattle consumes one name from the inventory and applies it.
// The item is taken before the effect runs and refunded if it fails.
func (e *Engine) UseOutOfBattle(s *player.Session, name string) (Result, error) {
	if s.Catalog().IsEquipment(name) {
		return Result{}, fmt.Errorf("%w: %s is equipment", ErrNotUsable, name)
	}
	def, err := s.Catalog().Consumable(name)
	if err != nil {
		return Result{}, err
	}
	if !def.UseOutOfBattle {
		return Result{}, fmt.Errorf("%w: %s cannot be used outside battle", ErrNotUsable, name)
	}
	if !s.RemoveItem(name, 1) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotOwned, name)
	}
	res, ok, err := e.apply(s, nil, nil, def, false)
	if err != nil || !ok {
		s.AddItem(name, 1)
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrUseFailed, strings.Join(res.Logs, " / "))
		}
		return res, err
	}
	e.logger.Debug("consumable used", zap.String("session_id", s.ID()), zap.String("item", name))
	return res, nil
}

// BattleItems lets a BattleInstance use the player's consumables.
type BattleItems struct {
	engine  *Engine
	session *player.Session
}

// NewBattleItems binds the engine to the session fighting the battle.
func NewBattleItems(engine *Engine, s *player.Session) *BattleItems {
	return &BattleItems{engine: engine, session: s}
}

// UseInBattle implements battle.ItemUser. Unknown, missing or
// unusable items do not spend the turn.
func (b *BattleItems) UseInBattle(name string, enemy *battle.EnemyBattler, skills *battle.SkillEngine) (battle.ItemOutcome, error) {
	s := b.session
	def, err := s.Catalog().Consumable(name)
	if err != nil {
		return battle.ItemOutcome{Logs: []string{fmt.Sprintf("%s is not a usable item.", name)}}, nil
	}
	if !def.UseInBattle {
		return battle.ItemOutcome{Logs: []string{fmt.Sprintf("%s cannot be used in battle.", name)}}, nil
	}
	if !s.RemoveItem(name, 1) {
		return battle.ItemOutcome{Logs: []string{fmt.Sprintf("No %s left.", name)}}, nil
	}
	res, ok, err := b.engine.apply(s, enemy, skills, def, true)
	if err != nil {
		s.AddItem(name, 1)
		return battle.ItemOutcome{}, err
	}
	if !ok {
		s.AddItem(name, 1)
		return battle.ItemOutcome{Logs: append(res.Logs, fmt.Sprintf("%s was not used.", name))}, nil
	}
	return battle.ItemOutcome{SpentTurn: res.SpentTurn, Escaped: res.Escaped, Logs: res.Logs}, nil
}

// apply runs one effect. ok is false when the effect could not be
// applied; the last log line then says why.
func (e *Engine) apply(s *player.Session, enemy *battle.EnemyBattler, skills *battle.SkillEngine, def resource.Consumable, inBattle bool) (Result, bool, error) {
	res := Result{Item: def.Name, Logs: []string{"[" + def.Name + "]"}}
	logf := func(format string, args ...any) { res.Logs = append(res.Logs, fmt.Sprintf(format, args...)) }
	fail := func(format string, args ...any) (Result, bool, error) {
		logf(format, args...)
		return res, false, nil
	}
	battleOnly := def.Name + " can only be used in battle."

	switch def.Effect {
	case resource.EffectHealHP:
		logf("HP +%d", healHP(s, hpAmount(s, def)))
	case resource.EffectHealMP:
		logf("MP +%d", healMP(s, mpAmount(s, def)))
	case resource.EffectRestoreFull:
		s.SetHP(float64(s.MaxHP()))
		s.SetMP(float64(s.MaxMP()))
		logf("HP and MP fully restored.")
	case resource.EffectAddShield:
		if !inBattle {
			return fail("%s", battleOnly)
		}
		amount := max(0, def.Shield+float64(s.MaxHP())*def.ShieldPercent/100)
		before := s.Shield()
		s.AddShield(amount)
		logf("Shield +%d (now %d)", s.Shield()-before, s.Shield())
	case resource.EffectPermStats:
		e.applyPermStats(s, def, logf)
	case resource.EffectMixed:
		if amount := hpAmount(s, def); amount > 0 {
			logf("HP +%d", healHP(s, amount))
		}
		if amount := mpAmount(s, def); amount > 0 {
			logf("MP +%d", healMP(s, amount))
		}
		e.applyPermStats(s, def, logf)
	case resource.EffectLevelUp:
		n := max(1, def.Levels)
		res.LevelUps = s.LevelUpTimes(n)
		logf("Level +%d (now Lv.%d)", n, s.Level())
		for _, up := range res.LevelUps {
			if len(up.NewSkills) > 0 {
				logf("Learned %s", strings.Join(up.NewSkills, ", "))
			}
		}
	case resource.EffectRemoveStatus:
		if def.RemoveAll {
			s.Statuses().ClearAll()
			logf("All status effects removed.")
			break
		}
		for _, k := range def.RemoveStatuses {
			s.Statuses().Clear(k)
			logf("%s removed.", k)
		}
		if len(def.RemoveStatuses) == 0 {
			logf("(warning) no status to remove.")
			e.logger.Warn("remove_status consumable names no status", zap.String("item", def.Name))
		}
	case resource.EffectEscape:
		if !inBattle {
			return fail("%s", battleOnly)
		}
		if enemy == nil {
			return fail("There is nothing to escape from.")
		}
		if enemy.IsBoss() {
			logf("It has no effect on %s!", enemy.Name())
			break
		}
		logf("%s escaped in a cloud of smoke!", s.Name())
		res.Escaped = true
	case resource.EffectCastSkill:
		if !inBattle {
			return fail("%s", battleOnly)
		}
		if enemy == nil || skills == nil {
			return fail("There is no target for %s.", def.CastSkill)
		}
		sk, err := s.Catalog().Skill(def.CastSkill)
		if err != nil {
			return fail("Unknown skill %s.", def.CastSkill)
		}
		r, err := skills.Cast(sk, s, enemy, def.MPOverride)
		if err != nil {
			return res, false, err
		}
		if !r.SpentTurn {
			return fail("Item use failed: %s", strings.Join(r.Logs, " / "))
		}
		res.Logs = append(res.Logs, r.Logs...)
	case resource.EffectDebug:
		logf("(debug) no effect")
	default:
		return fail("Unsupported effect %s.", def.Effect)
	}
	res.SpentTurn = true
	return res, true, nil
}

func (e *Engine) applyPermStats(s *player.Session, def resource.Consumable, logf func(string, ...any)) {
	d := def.Stats
	lines := []struct {
		label string
		v     float64
	}{
		{"Max HP", d.MaxHP}, {"Max MP", d.MaxMP}, {"Attack", d.Attack}, {"Magic", d.Magic},
		{"Defense", d.Defense}, {"Magic defense", d.MagicDefense}, {"Speed", d.Speed},
	}
	for _, l := range lines {
		if l.v != 0 {
			logf("%s %+d", l.label, battle.RoundHalfUp(l.v))
		}
	}
	if d.IsZero() {
		logf("(warning) no permanent stat change.")
		e.logger.Warn("perm_stats consumable has no stats", zap.String("item", def.Name))
	}
	s.AddPermanentStats(d)
}

func hpAmount(s *player.Session, def resource.Consumable) float64 {
	return max(0, def.HP+float64(s.MaxHP())*def.HPPercent/100)
}

func mpAmount(s *player.Session, def resource.Consumable) float64 {
	return max(0, def.MP+float64(s.MaxMP())*def.MPPercent/100)
}

func healHP(s *player.Session, amount float64) int {
	before := s.HP()
	s.SetHP(float64(before) + amount)
	return s.HP() - before
}

func healMP(s *player.Session, amount float64) int {
	before := s.MP()
	s.SetMP(float64(before) + amount)
	return s.MP() - before
}
