package battle

import (
	"fmt"
	"math"

	"github.com/Sephirode/realDesia/resource"
	"go.uber.org/zap"
)

// RNG is the random source shared by one battle. *rand.Rand satisfies it.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// SkillResult is the outcome of one cast.
type SkillResult struct {
	Skill     string
	SpentTurn bool // false only when MP was insufficient
	NoEffect  bool // nothing applied: no components and every trigger missed
	Logs      []string
}

// SkillEngine evaluates skill definitions.
type SkillEngine struct {
	rng    RNG
	logger *zap.Logger
}

// NewSkillEngine creates a SkillEngine drawing trigger rolls from rng.
func NewSkillEngine(rng RNG, logger *zap.Logger) *SkillEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillEngine{rng: rng, logger: logger}
}

// Cast spends MP and applies def from caster. enemy is the opposing
// combatant; it is required whenever the skill or one of its triggers
// targets the enemy. mpOverride replaces the definition's MP cost.
//
// Insufficient MP is a normal result with SpentTurn false and no state
// change. A missing required combatant returns ErrNilCombatant before
// anything is mutated.
func (e *SkillEngine) Cast(def resource.Skill, caster, enemy Combatant, mpOverride *int) (SkillResult, error) {
	res := SkillResult{Skill: def.Name}
	if isNil(caster) {
		return res, fmt.Errorf("cast %s: caster: %w", def.Name, ErrNilCombatant)
	}
	if isNil(enemy) && needsEnemy(def) {
		return res, fmt.Errorf("cast %s: target: %w", def.Name, ErrNilCombatant)
	}

	cost := max(0, def.MPCost)
	if mpOverride != nil {
		cost = max(0, *mpOverride)
	}
	if caster.MP() < cost {
		res.Logs = append(res.Logs, fmt.Sprintf("Not enough MP for %s (need %d, have %d).", def.Name, cost, caster.MP()))
		return res, nil
	}
	caster.SetMP(float64(caster.MP() - cost))
	res.SpentTurn = true
	res.Logs = append(res.Logs, fmt.Sprintf("[%s]", def.Name))

	target := caster
	if def.Target == resource.TargetEnemy {
		target = enemy
	}

	applied := false
	for _, c := range def.Components {
		amount := evalTerms(c.Terms, caster, target, cost)
		switch c.Kind {
		case resource.ComponentDamage:
			dr := DealDamage(caster, target, amount, c.DamageType, 1)
			if dr.Absorbed > 0 {
				res.Logs = append(res.Logs, fmt.Sprintf("%s takes %d %s damage (%d absorbed by shield).", target.Name(), dr.HPDamage, c.DamageType, dr.Absorbed))
			} else {
				res.Logs = append(res.Logs, fmt.Sprintf("%s takes %d %s damage.", target.Name(), dr.HPDamage, c.DamageType))
			}
		case resource.ComponentHeal:
			amount = math.Max(0, amount)
			if c.Resource == resource.HealMP {
				before := target.MP()
				target.SetMP(float64(before) + amount)
				res.Logs = append(res.Logs, fmt.Sprintf("%s restores %d MP.", target.Name(), target.MP()-before))
			} else {
				before := target.HP()
				target.SetHP(float64(before) + amount)
				res.Logs = append(res.Logs, fmt.Sprintf("%s restores %d HP.", target.Name(), target.HP()-before))
			}
		case resource.ComponentShield:
			before := target.Shield()
			target.AddShield(math.Max(0, amount))
			res.Logs = append(res.Logs, fmt.Sprintf("%s gains %d shield (now %d).", target.Name(), target.Shield()-before, target.Shield()))
		default:
			panic(fmt.Sprintf("battle: unhandled component kind %v", c.Kind))
		}
		applied = true
	}

	for _, trig := range def.StatusEffects {
		who := caster
		if trig.Target == resource.TargetEnemy {
			who = enemy
		}
		stacks := max(1, trig.Stacks)
		if e.rng.Float64() <= trig.Chance {
			who.Statuses().Add(trig.Status, stacks)
			res.Logs = append(res.Logs, fmt.Sprintf("%s gains %s x%d.", who.Name(), trig.Status, stacks))
			applied = true
		} else {
			res.Logs = append(res.Logs, fmt.Sprintf("%s resisted %s.", who.Name(), trig.Status))
		}
	}

	if !applied {
		res.NoEffect = true
		res.Logs = append(res.Logs, "Nothing happened.")
		e.logger.Warn("skill had no effect", zap.String("skill", def.Name))
	}
	return res, nil
}

func needsEnemy(def resource.Skill) bool {
	if def.Target == resource.TargetEnemy {
		return true
	}
	for _, t := range def.StatusEffects {
		if t.Target == resource.TargetEnemy {
			return true
		}
	}
	return false
}

// evalTerms sums coef * stat over the terms. Nothing is rounded here.
func evalTerms(terms []resource.Term, self, target Combatant, spentMP int) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.Coef * statValue(t.Stat, self, target, spentMP)
	}
	return sum
}

func statValue(ref resource.StatRef, self, target Combatant, spentMP int) float64 {
	switch ref {
	case resource.RefConstant:
		return 1
	case resource.RefSelfSpentMP:
		return float64(spentMP)
	case resource.RefSelfAttack, resource.RefSelfMagic, resource.RefSelfDefense,
		resource.RefSelfMagicDefense, resource.RefSelfSpeed,
		resource.RefSelfHP, resource.RefSelfMaxHP, resource.RefSelfMissingHP:
		return unitStat(ref-resource.RefSelfAttack, self)
	default:
		return unitStat(ref-resource.RefTargetAttack, target)
	}
}

// unitStat reads the stat at offset off of the self_/target_ groups,
// which share the order attack, magic, def, mdef, spd, hp, max_hp, missing_hp.
func unitStat(off resource.StatRef, c Combatant) float64 {
	st := c.Stats()
	switch off {
	case 0:
		return float64(st.Attack)
	case 1:
		return float64(st.Magic)
	case 2:
		return float64(st.Defense)
	case 3:
		return float64(st.MagicDefense)
	case 4:
		return float64(st.Speed)
	case 5:
		return float64(c.HP())
	case 6:
		return float64(c.MaxHP())
	case 7:
		return float64(c.MaxHP() - c.HP())
	}
	return 0
}
