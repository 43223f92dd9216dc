package battle

import (
	"errors"
	"math"

	"github.com/Sephirode/realDesia/resource"
)

// ErrNilCombatant is returned when a mandatory combatant is missing.
var ErrNilCombatant = errors.New("battle: nil combatant")

// Stats is the set of effective combat attributes. Values are always
// rounded integers; MaxHP is at least 1 and the rest are at least 0.
type Stats struct {
	MaxHP        int `json:"max_hp"`
	MaxMP        int `json:"max_mp"`
	Attack       int `json:"atk"`
	Magic        int `json:"magic"`
	Defense      int `json:"def"`
	MagicDefense int `json:"mdef"`
	Speed        int `json:"spd"`
}

// Aggregate computes effective stats as
// round(base + growth*(level-1) + sum(bonuses)) per attribute.
func Aggregate(level int, base, growth resource.StatLine, bonuses ...resource.StatLine) Stats {
	total := base.Add(growth.Scale(float64(max(1, level) - 1)))
	for _, b := range bonuses {
		total = total.Add(b)
	}
	return Stats{
		MaxHP:        max(1, RoundHalfUp(total.MaxHP)),
		MaxMP:        max(0, RoundHalfUp(total.MaxMP)),
		Attack:       max(0, RoundHalfUp(total.Attack)),
		Magic:        max(0, RoundHalfUp(total.Magic)),
		Defense:      max(0, RoundHalfUp(total.Defense)),
		MagicDefense: max(0, RoundHalfUp(total.MagicDefense)),
		Speed:        max(0, RoundHalfUp(total.Speed)),
	}
}

// RoundHalfUp rounds to the nearest integer, halves toward +Inf.
func RoundHalfUp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// ClampResource rounds v and clamps it into [0, maxValue].
func ClampResource(v float64, maxValue int) int {
	n := RoundHalfUp(v)
	if n > maxValue {
		n = maxValue
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Resource is the HP/MP capability. Setters round and clamp.
type Resource interface {
	HP() int
	MP() int
	MaxHP() int
	MaxMP() int
	SetHP(v float64)
	SetMP(v float64)
}

// Shielded is the damage-buffer capability.
type Shielded interface {
	Shield() int
	SetShield(v float64)
	AddShield(amount float64)
	AbsorbDamage(incoming float64) int
	// BaseShield is the gear-derived value restored at battle boundaries.
	BaseShield() int
}

// StatusBearer exposes the status stack ledger.
type StatusBearer interface {
	Statuses() *StatusLedger
}

// Statted exposes identity and effective stats.
type Statted interface {
	Name() string
	Level() int
	Stats() Stats
}

// Combatant is anything that can take part in a battle.
type Combatant interface {
	Resource
	Shielded
	StatusBearer
	Statted
}

// IsAlive reports whether c has HP left.
func IsAlive(c Resource) bool { return c.HP() > 0 }

// isNil reports whether c is missing. A nil *EnemyBattler inside the
// interface counts as missing; other implementations must not be passed
// as typed nils.
func isNil(c Combatant) bool {
	if c == nil {
		return true
	}
	if e, ok := c.(*EnemyBattler); ok {
		return e == nil
	}
	return false
}

// ResetForBattle clears temporary statuses and restores the base shield.
// Called at both battle start and battle end.
func ResetForBattle(c Combatant) {
	c.Statuses().ClearAll()
	c.SetShield(float64(c.BaseShield()))
}
