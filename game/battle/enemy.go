package battle

import (
	"github.com/Sephirode/realDesia/resource"
)

// EnemyBattler is an enemy spawned for a single encounter. It has no
// equipment; its stats come from the template's base and growth only.
type EnemyBattler struct {
	ShieldLayer
	def      resource.Enemy
	level    int
	hp, mp   int
	statuses StatusLedger
}

// NewEnemyBattler creates a fresh instance at level (floored at 1) with
// full HP and MP.
func NewEnemyBattler(def resource.Enemy, level int) *EnemyBattler {
	e := &EnemyBattler{def: def, level: max(1, level)}
	st := e.Stats()
	e.hp = st.MaxHP
	e.mp = st.MaxMP
	return e
}

// SpawnEnemy rolls a level uniformly in [minLevel, maxLevel] (swapped if
// inverted, floored at 1). Boss templates always spawn at the top of
// the range.
func SpawnEnemy(def resource.Enemy, minLevel, maxLevel int, rng RNG) *EnemyBattler {
	lo, hi := max(1, minLevel), max(1, maxLevel)
	if lo > hi {
		lo, hi = hi, lo
	}
	level := hi
	if !def.IsBoss() && hi > lo {
		level = lo + rng.Intn(hi-lo+1)
	}
	return NewEnemyBattler(def, level)
}

func (e *EnemyBattler) Name() string { return e.def.Name }
func (e *EnemyBattler) Level() int   { return e.level }
func (e *EnemyBattler) IsBoss() bool { return e.def.IsBoss() }

// Definition returns the template the enemy was spawned from.
func (e *EnemyBattler) Definition() resource.Enemy { return e.def }

// Stats aggregates base and growth at the current level.
func (e *EnemyBattler) Stats() Stats { return Aggregate(e.level, e.def.Base, e.def.Growth) }

func (e *EnemyBattler) HP() int    { return e.hp }
func (e *EnemyBattler) MP() int    { return e.mp }
func (e *EnemyBattler) MaxHP() int { return e.Stats().MaxHP }
func (e *EnemyBattler) MaxMP() int { return e.Stats().MaxMP }

func (e *EnemyBattler) SetHP(v float64) { e.hp = ClampResource(v, e.MaxHP()) }
func (e *EnemyBattler) SetMP(v float64) { e.mp = ClampResource(v, e.MaxMP()) }

// BaseShield is always 0: enemies carry no gear.
func (e *EnemyBattler) BaseShield() int { return 0 }

func (e *EnemyBattler) Statuses() *StatusLedger { return &e.statuses }
