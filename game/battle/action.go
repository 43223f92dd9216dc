package battle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sephirode/realDesia/resource"
)

// ActionType is the kind of command the player chose.
type ActionType int

const (
	ActionAttack ActionType = iota
	ActionSkill
	ActionItem
	ActionEscape
)

func (t ActionType) String() string {
	switch t {
	case ActionSkill:
		return "skill"
	case ActionItem:
		return "item"
	case ActionEscape:
		return "escape"
	}
	return "attack"
}

// Action is one fully formed player decision.
type Action struct {
	Type           ActionType
	Skill          string
	Item           string
	MPCostOverride *int
}

func (a Action) String() string {
	switch a.Type {
	case ActionSkill:
		return "skill:" + a.Skill
	case ActionItem:
		return "item:" + a.Item
	}
	return a.Type.String()
}

// ParseAction reads the textual form used by scripts: "attack",
// "escape", "item:<name>", "skill:<name>" or "skill:<name>:<mp cost>".
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	kind, rest, _ := strings.Cut(s, ":")
	switch strings.ToLower(kind) {
	case "attack":
		return Action{Type: ActionAttack}, nil
	case "escape":
		return Action{Type: ActionEscape}, nil
	case "item":
		if rest == "" {
			return Action{}, fmt.Errorf("battle: item action without a name: %q", s)
		}
		return Action{Type: ActionItem, Item: rest}, nil
	case "skill":
		name, cost, hasCost := strings.Cut(rest, ":")
		if name == "" {
			return Action{}, fmt.Errorf("battle: skill action without a name: %q", s)
		}
		a := Action{Type: ActionSkill, Skill: name}
		if hasCost {
			n, err := strconv.Atoi(cost)
			if err != nil {
				return Action{}, fmt.Errorf("battle: bad mp cost in %q: %w", s, err)
			}
			a.MPCostOverride = &n
		}
		return a, nil
	}
	return Action{}, fmt.Errorf("battle: unknown action %q", s)
}

// BattleView is what the input layer sees when asked for a decision.
type BattleView struct {
	Round  int             `json:"round"`
	Player BattlerSnapshot `json:"player"`
	Enemy  BattlerSnapshot `json:"enemy"`
}

// ActionSource supplies player decisions. It may block (for example on
// user input); the battle only waits between actions, never during one.
type ActionSource interface {
	NextAction(ctx context.Context, view BattleView) (Action, error)
}

// ErrNoMoreActions is returned by ScriptedSource when its script runs out.
var ErrNoMoreActions = errors.New("battle: action script exhausted")

// ScriptedSource replays a fixed list of actions.
type ScriptedSource struct {
	actions []Action
	pos     int
}

// NewScriptedSource creates a source that returns actions in order.
func NewScriptedSource(actions ...Action) *ScriptedSource {
	return &ScriptedSource{actions: actions}
}

func (s *ScriptedSource) NextAction(ctx context.Context, _ BattleView) (Action, error) {
	if err := ctx.Err(); err != nil {
		return Action{}, err
	}
	if s.pos >= len(s.actions) {
		return Action{}, ErrNoMoreActions
	}
	a := s.actions[s.pos]
	s.pos++
	return a, nil
}

// PlayerCombatant is the player side of a battle.
type PlayerCombatant interface {
	Combatant
	// KnownSkill returns the definition of a skill the player has learned.
	KnownSkill(name string) (resource.Skill, bool)
}

// ItemOutcome is the result of using an item in battle. A failed use
// (SpentTurn false) must leave the inventory unchanged.
type ItemOutcome struct {
	SpentTurn bool
	Escaped   bool
	Logs      []string
}

// ItemUser applies consumables on behalf of the player during a battle.
type ItemUser interface {
	UseInBattle(name string, enemy *EnemyBattler, skills *SkillEngine) (ItemOutcome, error)
}
