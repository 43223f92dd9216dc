package battle

import (
	"math"

	"github.com/Sephirode/realDesia/resource"
)

// DamageType re-exports the table enumeration for combat code.
type DamageType = resource.DamageType

const (
	PhysicalDamage = resource.DamagePhysical
	MagicDamage    = resource.DamageMagic
	TrueDamage     = resource.DamageTrue
)

// DamageResult reports one resolved hit.
type DamageResult struct {
	Mitigated int // after defense and rounding, before the shield
	Absorbed  int // taken by the shield
	HPDamage  int // taken by HP
}

// Mitigate applies the defense rule for dt to a raw amount and returns
// the rounded damage, which is always at least 1.
func Mitigate(raw float64, dt DamageType, target Statted) int {
	dmg := math.Max(0, raw)
	st := target.Stats()
	switch dt {
	case MagicDamage:
		dmg = math.Max(1, dmg-float64(st.MagicDefense)*0.5)
	case TrueDamage:
		dmg = math.Max(1, dmg)
	default:
		dmg = math.Max(1, dmg-float64(st.Defense)*0.5)
	}
	return max(1, RoundHalfUp(dmg))
}

// DealDamage resolves a hit against target: mitigation, shield, then HP.
// The hit is reported to the target's status ledger with hitCount (at
// least 1). A nil target, including a nil *EnemyBattler, is a no-op.
func DealDamage(attacker, target Combatant, raw float64, dt DamageType, hitCount int) DamageResult {
	if isNil(target) {
		return DamageResult{}
	}
	dmg := Mitigate(raw, dt, target)
	toHP := target.AbsorbDamage(float64(dmg))
	if toHP > 0 {
		target.SetHP(float64(target.HP() - toHP))
	}
	OnHitTaken(target, max(1, hitCount))
	return DamageResult{Mitigated: dmg, Absorbed: dmg - toHP, HPDamage: toHP}
}
