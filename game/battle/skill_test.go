package battle

import (
	"errors"
	"testing"

	"github.com/Sephirode/realDesia/resource"
)

func fireball() resource.Skill {
	return resource.Skill{
		Name:   "Fireball",
		Target: resource.TargetEnemy,
		MPCost: 10,
		Components: []resource.Component{{
			Kind:       resource.ComponentDamage,
			DamageType: resource.DamageMagic,
			Terms: []resource.Term{
				{Stat: resource.RefSelfMagic, Coef: 2},
				{Stat: resource.RefConstant, Coef: 5},
			},
		}},
		StatusEffects: []resource.StatusTrigger{
			{Status: resource.StatusBurn, Target: resource.TargetEnemy, Chance: 0.5, Stacks: 2},
		},
	}
}

func TestCastInsufficientMP(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30, Magic: 10})
	caster.SetMP(9)
	enemy := newUnit("Orc", Stats{MaxHP: 100})
	rng := &fakeRNG{floats: []float64{0.1}}

	res, err := NewSkillEngine(rng, nil).Cast(fireball(), caster, enemy, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.SpentTurn {
		t.Error("insufficient MP should not spend the turn")
	}
	if caster.MP() != 9 || enemy.HP() != 100 || enemy.Statuses().Has(Burn) {
		t.Errorf("state mutated: mp=%d hp=%d statuses=%v", caster.MP(), enemy.HP(), enemy.Statuses().Snapshot())
	}
	if len(rng.floats) != 1 {
		t.Error("no random value should be drawn on a failed cast")
	}
}

func TestCastDamageAndTrigger(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30, Magic: 10})
	enemy := newUnit("Orc", Stats{MaxHP: 100, MagicDefense: 6})
	rng := &fakeRNG{floats: []float64{0.5}}

	res, err := NewSkillEngine(rng, nil).Cast(fireball(), caster, enemy, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.SpentTurn || res.NoEffect {
		t.Errorf("result = %+v", res)
	}
	if caster.MP() != 20 {
		t.Errorf("mp = %d, want 20", caster.MP())
	}
	// 2*10 + 5 - 6*0.5 = 22
	if enemy.HP() != 78 {
		t.Errorf("enemy hp = %d, want 78", enemy.HP())
	}
	// roll 0.5 <= chance 0.5 succeeds
	if got := enemy.Statuses().Stacks(Burn); got != 2 {
		t.Errorf("burn = %d, want 2", got)
	}
	if len(res.Logs) == 0 || res.Logs[0] != "[Fireball]" {
		t.Errorf("logs = %v", res.Logs)
	}
}

func TestCastTriggerMiss(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30, Magic: 10})
	enemy := newUnit("Orc", Stats{MaxHP: 100})
	rng := &fakeRNG{floats: []float64{0.51}}

	res, err := NewSkillEngine(rng, nil).Cast(fireball(), caster, enemy, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.SpentTurn {
		t.Error("a missed trigger still spends the turn")
	}
	if enemy.Statuses().Has(Burn) {
		t.Error("burn should not be applied on a miss")
	}
}

func TestCastMPOverride(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30, Magic: 10})
	enemy := newUnit("Orc", Stats{MaxHP: 100})
	zero := 0
	if _, err := NewSkillEngine(&fakeRNG{}, nil).Cast(fireball(), caster, enemy, &zero); err != nil {
		t.Fatal(err)
	}
	if caster.MP() != 30 {
		t.Errorf("mp = %d, want 30 with override 0", caster.MP())
	}

	negative := -4
	if _, err := NewSkillEngine(&fakeRNG{}, nil).Cast(fireball(), caster, enemy, &negative); err != nil {
		t.Fatal(err)
	}
	if caster.MP() != 30 {
		t.Errorf("negative override should clamp to 0, mp = %d", caster.MP())
	}
}

func TestCastHealAndShield(t *testing.T) {
	skill := resource.Skill{
		Name:   "Renew",
		MPCost: 4,
		Components: []resource.Component{
			{Kind: resource.ComponentHeal, Resource: resource.HealHP, Terms: []resource.Term{{Stat: resource.RefSelfMissingHP, Coef: 0.5}}},
			{Kind: resource.ComponentHeal, Resource: resource.HealMP, Terms: []resource.Term{{Stat: resource.RefSelfSpentMP, Coef: 3}}},
			{Kind: resource.ComponentShield, Terms: []resource.Term{{Stat: resource.RefSelfMaxHP, Coef: 0.1}}},
			{Kind: resource.ComponentHeal, Resource: resource.HealHP, Terms: []resource.Term{{Stat: resource.RefConstant, Coef: -50}}},
		},
	}
	caster := newUnit("Cleric", Stats{MaxHP: 100, MaxMP: 20})
	caster.SetHP(40)

	res, err := NewSkillEngine(&fakeRNG{}, nil).Cast(skill, caster, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// missing 60 * 0.5 = 30
	if caster.HP() != 70 {
		t.Errorf("hp = %d, want 70", caster.HP())
	}
	// 20 - 4 + 12 clamps at 20
	if caster.MP() != 20 {
		t.Errorf("mp = %d, want 20", caster.MP())
	}
	if caster.Shield() != 10 {
		t.Errorf("shield = %d, want 10", caster.Shield())
	}
	if res.NoEffect {
		t.Error("components ran, result should not be a no-op")
	}
}

func TestCastTermsReadTarget(t *testing.T) {
	skill := resource.Skill{
		Name:   "Execute",
		Target: resource.TargetEnemy,
		Components: []resource.Component{{
			Kind:       resource.ComponentDamage,
			DamageType: resource.DamageTrue,
			Terms:      []resource.Term{{Stat: resource.RefTargetMissingHP, Coef: 1}, {Stat: resource.RefTargetDefense, Coef: 0.5}},
		}},
	}
	caster := newUnit("Rogue", Stats{MaxHP: 50})
	enemy := newUnit("Orc", Stats{MaxHP: 100, Defense: 8})
	enemy.SetHP(70)

	if _, err := NewSkillEngine(&fakeRNG{}, nil).Cast(skill, caster, enemy, nil); err != nil {
		t.Fatal(err)
	}
	// 30 + 4 true damage
	if enemy.HP() != 36 {
		t.Errorf("enemy hp = %d, want 36", enemy.HP())
	}
}

func TestCastNoEffect(t *testing.T) {
	skill := resource.Skill{
		Name: "Hex",
		StatusEffects: []resource.StatusTrigger{
			{Status: resource.StatusPanic, Target: resource.TargetEnemy, Chance: 0.2},
		},
	}
	caster := newUnit("Witch", Stats{MaxHP: 50})
	enemy := newUnit("Orc", Stats{MaxHP: 100})

	res, err := NewSkillEngine(&fakeRNG{floats: []float64{0.9}}, nil).Cast(skill, caster, enemy, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.SpentTurn || !res.NoEffect {
		t.Errorf("result = %+v, want spent no-op", res)
	}

	empty := resource.Skill{Name: "Nothing"}
	res, err = NewSkillEngine(&fakeRNG{}, nil).Cast(empty, caster, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NoEffect {
		t.Error("empty skill should be flagged as no-op")
	}
}

func TestCastTriggerStacksFloor(t *testing.T) {
	skill := resource.Skill{
		Name: "Trip",
		StatusEffects: []resource.StatusTrigger{
			{Status: resource.StatusBleed, Target: resource.TargetSelf, Chance: 1, Stacks: 0},
		},
	}
	caster := newUnit("Fool", Stats{MaxHP: 50})
	if _, err := NewSkillEngine(&fakeRNG{floats: []float64{0.99}}, nil).Cast(skill, caster, nil, nil); err != nil {
		t.Fatal(err)
	}
	if got := caster.Statuses().Stacks(Bleed); got != 1 {
		t.Errorf("bleed = %d, want 1", got)
	}
}

func TestCastRequiresTarget(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30})
	_, err := NewSkillEngine(&fakeRNG{}, nil).Cast(fireball(), caster, nil, nil)
	if !errors.Is(err, ErrNilCombatant) {
		t.Errorf("err = %v, want ErrNilCombatant", err)
	}
	if caster.MP() != 30 {
		t.Errorf("mp = %d, nothing should be spent", caster.MP())
	}

	_, err = NewSkillEngine(&fakeRNG{}, nil).Cast(fireball(), nil, caster, nil)
	if !errors.Is(err, ErrNilCombatant) {
		t.Errorf("nil caster err = %v", err)
	}
}

func TestCastNilEnemyBattler(t *testing.T) {
	caster := newUnit("Mage", Stats{MaxHP: 50, MaxMP: 30})
	var enemy *EnemyBattler
	_, err := NewSkillEngine(&fakeRNG{}, nil).Cast(fireball(), caster, enemy, nil)
	if !errors.Is(err, ErrNilCombatant) {
		t.Errorf("err = %v, want ErrNilCombatant", err)
	}
	if caster.MP() != 30 {
		t.Errorf("mp = %d, nothing should be spent", caster.MP())
	}
}
