package testutil

import (
	"testing"

	"github.com/Sephirode/realDesia/resource"
	"github.com/stretchr/testify/require"
)

func dmg(dt resource.DamageType, terms ...resource.Term) resource.Component {
	return resource.Component{Kind: resource.ComponentDamage, DamageType: dt, Terms: terms}
}

func term(stat resource.StatRef, coef float64) resource.Term {
	return resource.Term{Stat: stat, Coef: coef}
}

func intPtr(v int) *int { return &v }

// Tables returns the fixture definitions used across package tests.
//
// Warrior has no unlock rules (fallback: two skills at level 1, one more
// every ten levels). Mage unlocks one skill at each of levels 1, 2 and 3.
// The Iron Guard set grants +4 defense at two pieces and +30 max HP plus
// the "iron_will" tag at three.
func Tables() resource.Tables {
	return resource.Tables{
		Classes: map[string]resource.Class{
			"Warrior": {
				StartLevel: 1,
				Base:       resource.StatLine{MaxHP: 120, MaxMP: 30, Attack: 14, Magic: 4, Defense: 8, MagicDefense: 4, Speed: 8},
				Growth:     resource.StatLine{MaxHP: 12, MaxMP: 3, Attack: 2, Defense: 1},
				SkillSet:   []string{"Power Strike", "Guard", "Whirlwind"},
			},
			"Mage": {
				StartLevel: 1,
				Base:       resource.StatLine{MaxHP: 80, MaxMP: 60, Attack: 5, Magic: 16, Defense: 4, MagicDefense: 8, Speed: 10},
				Growth:     resource.StatLine{MaxHP: 8, MaxMP: 6, Magic: 2},
				SkillSet:   []string{"Fireball", "Mana Shield", "Frost Nova"},
				Unlocks: []resource.UnlockRule{
					{Level: 3, Skills: []string{"Frost Nova"}},
					{Level: 1, Skills: []string{"Fireball"}},
					{Level: 2, Skills: []string{"Mana Shield"}},
				},
			},
		},
		Skills: map[string]resource.Skill{
			"Power Strike": {
				Target: resource.TargetEnemy, MPCost: 5,
				Components: []resource.Component{dmg(resource.DamagePhysical, term(resource.RefSelfAttack, 1.5))},
			},
			"Guard": {
				MPCost:     4,
				Components: []resource.Component{{Kind: resource.ComponentShield, Terms: []resource.Term{term(resource.RefSelfMaxHP, 0.2)}}},
			},
			"Whirlwind": {
				Target: resource.TargetEnemy, MPCost: 10,
				Components:    []resource.Component{dmg(resource.DamagePhysical, term(resource.RefSelfAttack, 1))},
				StatusEffects: []resource.StatusTrigger{{Status: resource.StatusBleed, Target: resource.TargetEnemy, Chance: 0.5, Stacks: 1}},
			},
			"Fireball": {
				Target: resource.TargetEnemy, MPCost: 10,
				Components:    []resource.Component{dmg(resource.DamageMagic, term(resource.RefSelfMagic, 2), term(resource.RefConstant, 5))},
				StatusEffects: []resource.StatusTrigger{{Status: resource.StatusBurn, Target: resource.TargetEnemy, Chance: 0.3, Stacks: 2}},
			},
			"Mana Shield": {
				MPCost:     8,
				Components: []resource.Component{{Kind: resource.ComponentShield, Terms: []resource.Term{term(resource.RefSelfMagic, 2)}}},
			},
			"Frost Nova": {
				Target: resource.TargetEnemy, MPCost: 15,
				Components:    []resource.Component{dmg(resource.DamageMagic, term(resource.RefSelfMagic, 1.2))},
				StatusEffects: []resource.StatusTrigger{{Status: resource.StatusFreeze, Target: resource.TargetEnemy, Chance: 0.4, Stacks: 1}},
			},
		},
		Enemies: map[string]resource.Enemy{
			"Slime": {
				Tier: "normal", BaseLevel: 1,
				Base:   resource.StatLine{MaxHP: 30, Attack: 6, Defense: 2, MagicDefense: 1, Speed: 3},
				Growth: resource.StatLine{MaxHP: 6, Attack: 1},
			},
			"Goblin Shaman": {
				Tier: "normal", BaseLevel: 2,
				Base:   resource.StatLine{MaxHP: 45, MaxMP: 20, Attack: 5, Magic: 9, Defense: 3, MagicDefense: 5, Speed: 9},
				Growth: resource.StatLine{MaxHP: 8, Magic: 1.5},
			},
			"Dragon": {
				Tier: "Boss", BaseLevel: 10,
				Base:   resource.StatLine{MaxHP: 600, MaxMP: 100, Attack: 40, Magic: 35, Defense: 20, MagicDefense: 20, Speed: 12},
				Growth: resource.StatLine{MaxHP: 40, Attack: 3},
			},
		},
		Equipment: map[string]resource.Equipment{
			"Iron Helm":      {Slot: resource.CategoryHelmet, Price: 40, Stats: map[string]int{"defense": 3}, SetName: "Iron Guard"},
			"Iron Mail":      {Slot: resource.CategoryChest, Price: 90, Stats: map[string]int{"defense": 6, "max_hp": 20}, SetName: "Iron Guard"},
			"Iron Greaves":   {Slot: resource.CategoryLegs, Price: 50, Stats: map[string]int{"defense": 3}, SetName: "Iron Guard"},
			"Leather Boots":  {Slot: resource.CategoryBoots, Price: 20, Stats: map[string]int{"speed": 2}},
			"Traveler Cloak": {Slot: resource.CategoryCloak, Price: 25, Stats: map[string]int{"magic_resist": 2}},
			"Ruby Ring":      {Slot: resource.CategoryRing, Price: 60, Stats: map[string]int{"spell_power": 3}},
			"Onyx Ring":      {Slot: resource.CategoryRing, Price: 60, Stats: map[string]int{"attack": 2}},
			"Short Sword":    {Slot: resource.CategoryOneHand, Price: 45, Stats: map[string]int{"attack": 6}},
			"Dagger":         {Slot: resource.CategoryOneHand, Price: 30, Stats: map[string]int{"attack": 3, "speed": 1}},
			"Great Axe":      {Slot: resource.CategoryTwoHand, Price: 120, Stats: map[string]int{"attack": 15}},
			"Tower Shield":   {Slot: resource.CategoryShield, Price: 80, Stats: map[string]int{"defense": 5, "max_shield": 20}},
		},
		Sets: map[string]resource.EquipmentSet{
			"Iron Guard": {
				Pieces: []string{"Iron Helm", "Iron Mail", "Iron Greaves"},
				Bonuses: []resource.SetBonus{
					{Pieces: 2, Stats: map[string]int{"defense": 4}},
					{Pieces: 3, Stats: map[string]int{"max_hp": 30}, SpecialTags: []string{"iron_will"}},
				},
			},
		},
		Consumables: map[string]resource.Consumable{
			"Potion":         {Effect: resource.EffectHealHP, HP: 50, UseInBattle: true, UseOutOfBattle: true, Price: 10},
			"Hi-Potion":      {Effect: resource.EffectHealHP, HPPercent: 50, UseInBattle: true, UseOutOfBattle: true, Price: 30},
			"Ether":          {Effect: resource.EffectHealMP, MP: 30, UseInBattle: true, UseOutOfBattle: true, Price: 20},
			"Elixir":         {Effect: resource.EffectRestoreFull, UseInBattle: true, UseOutOfBattle: true, Price: 200},
			"Barrier Stone":  {Effect: resource.EffectAddShield, Shield: 25, UseInBattle: true},
			"Power Seed":     {Effect: resource.EffectPermStats, Stats: resource.StatLine{Attack: 2}, UseOutOfBattle: true},
			"Hollow Seed":    {Effect: resource.EffectPermStats, UseOutOfBattle: true},
			"Trail Mix":      {Effect: resource.EffectMixed, HP: 20, MP: 10, Stats: resource.StatLine{Speed: 1}, UseOutOfBattle: true},
			"Tome of Growth": {Effect: resource.EffectLevelUp, Levels: 2, UseOutOfBattle: true},
			"Antidote":       {Effect: resource.EffectRemoveStatus, RemoveStatuses: []resource.StatusKind{resource.StatusPoison, resource.StatusBleed}, UseInBattle: true, UseOutOfBattle: true},
			"Panacea":        {Effect: resource.EffectRemoveStatus, RemoveAll: true, UseInBattle: true, UseOutOfBattle: true},
			"Smoke Bomb":     {Effect: resource.EffectEscape, UseInBattle: true},
			"Fire Scroll":    {Effect: resource.EffectCastSkill, CastSkill: "Fireball", MPOverride: intPtr(0), UseInBattle: true},
			"Frost Scroll":   {Effect: resource.EffectCastSkill, CastSkill: "Frost Nova", UseInBattle: true},
			"Debug Token":    {Effect: resource.EffectDebug, UseInBattle: true, UseOutOfBattle: true},
		},
	}
}

// Catalog returns a catalog built from Tables.
func Catalog(t testing.TB) *resource.Catalog {
	t.Helper()
	cat, err := resource.NewCatalog(Tables())
	require.NoError(t, err, "testutil.Catalog")
	return cat
}
