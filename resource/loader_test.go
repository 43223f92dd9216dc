package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const skillsJSON = `{
  "Fireball": {
    "mp_cost": 10,
    "target": "enemy",
    "components": [
      {"kind": "damage", "damage_type": "magic", "terms": [{"stat": "self_magic", "coef": 1.5}, {"stat": "constant", "coef": 4}]}
    ],
    "status_effects": [{"status": "burn", "target": "enemy", "chance": 0.5, "stacks": 2}]
  },
  "Mana Spring": {
    "mp_cost": 0,
    "components": [{"kind": "heal", "terms": [{"stat": "constant", "coef": 20}]}]
  },
  "First Aid": {
    "components": [{"kind": "heal", "resource": "hp", "terms": [{"stat": "self_max_hp", "coef": 0.2}]}]
  }
}`

const classesYAML = `
Warrior:
  level: 1
  base: {max_hp: 120, max_mp: 20, atk: 14, magic: 3, def: 8, mdef: 4, spd: 6}
  growth: {max_hp: 12, atk: 2, def: 1}
  skill_set: [Fireball, First Aid, Mana Spring]
`

func TestLoader_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skills.json", skillsJSON)
	writeFile(t, dir, "classes.yaml", classesYAML)
	writeFile(t, dir, "enemies.json", `{"Slime": {"tier": "normal", "base_level": 1, "base": {"max_hp": 30, "atk": 5}}}`)

	cat, err := NewLoader(dir).Load()
	require.NoError(t, err)

	fb, err := cat.Skill("Fireball")
	require.NoError(t, err)
	assert.Equal(t, "Fireball", fb.Name)
	assert.Equal(t, TargetEnemy, fb.Target)
	require.Len(t, fb.Components, 1)
	assert.Equal(t, DamageMagic, fb.Components[0].DamageType)
	assert.Equal(t, RefSelfMagic, fb.Components[0].Terms[0].Stat)
	assert.Equal(t, StatusBurn, fb.StatusEffects[0].Status)

	cl, err := cat.Class("Warrior")
	require.NoError(t, err)
	assert.Equal(t, 120.0, cl.Base.MaxHP)
	assert.Equal(t, 12.0, cl.Growth.MaxHP)

	slime, err := cat.Enemy("Slime")
	require.NoError(t, err)
	assert.Equal(t, "Slime", slime.Name)
	assert.False(t, slime.IsBoss())
}

func TestLoader_UnknownKindFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skills.json", `{"Bad": {"components": [{"kind": "teleport"}]}}`)
	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoader_UnknownStatRefFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skills.json", `{"Bad": {"components": [{"kind": "damage", "terms": [{"stat": "self_luck", "coef": 1}]}]}}`)
	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoader_EmptyDirectory(t *testing.T) {
	cat, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Empty(t, cat.SkillNames())
}

func TestCatalog_HealResourceResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skills.json", skillsJSON)
	cat, err := NewLoader(dir).Load()
	require.NoError(t, err)

	spring, err := cat.Skill("Mana Spring")
	require.NoError(t, err)
	assert.Equal(t, HealHP, spring.Components[0].Resource, "english name has no MP marker")

	aid, err := cat.Skill("First Aid")
	require.NoError(t, err)
	assert.Equal(t, HealHP, aid.Components[0].Resource)
}

func TestCatalog_LegacyMPMarker(t *testing.T) {
	cat, err := NewCatalog(Tables{Skills: map[string]Skill{
		"Restore MP":  {Components: []Component{{Kind: ComponentHeal}}},
		"마나 회복":       {Components: []Component{{Kind: ComponentHeal}}},
		"Meditation":  {Description: "마나를 회복한다", Components: []Component{{Kind: ComponentHeal}}},
		"Explicit HP": {Components: []Component{{Kind: ComponentHeal, Resource: HealHP}}},
	}})
	require.NoError(t, err)
	for name, want := range map[string]HealResource{
		"Restore MP": HealMP, "마나 회복": HealMP, "Meditation": HealMP, "Explicit HP": HealHP,
	} {
		s, err := cat.Skill(name)
		require.NoError(t, err)
		assert.Equal(t, want, s.Components[0].Resource, name)
	}
}

func TestCatalog_LookupsReturnCopies(t *testing.T) {
	cat, err := NewCatalog(Tables{Skills: map[string]Skill{
		"Slash": {Components: []Component{{Kind: ComponentDamage, Terms: []Term{{Stat: RefSelfAttack, Coef: 1}}}}},
	}})
	require.NoError(t, err)

	s, _ := cat.Skill("Slash")
	s.Components[0].Terms[0].Coef = 99
	s.MPCost = 50

	again, _ := cat.Skill("Slash")
	assert.Equal(t, 1.0, again.Components[0].Terms[0].Coef)
	assert.Equal(t, 0, again.MPCost)
}

func TestCatalog_UnknownNames(t *testing.T) {
	cat, err := NewCatalog(Tables{})
	require.NoError(t, err)

	_, err = cat.Enemy("ghost")
	assert.ErrorIs(t, err, ErrUnknownEnemy)
	_, err = cat.Skill("ghost")
	assert.ErrorIs(t, err, ErrUnknownSkill)
	_, err = cat.Equipment("ghost")
	assert.ErrorIs(t, err, ErrUnknownEquipment)
	_, err = cat.Class("ghost")
	assert.ErrorIs(t, err, ErrUnknownClass)
	_, err = cat.Consumable("ghost")
	assert.ErrorIs(t, err, ErrUnknownConsumable)
}

func TestCatalog_ValidatesReferences(t *testing.T) {
	_, err := NewCatalog(Tables{Classes: map[string]Class{"Mage": {SkillSet: []string{"Nope"}}}})
	assert.ErrorIs(t, err, ErrUnknownSkill)

	_, err = NewCatalog(Tables{Equipment: map[string]Equipment{"Helm": {Stats: map[string]int{"luck": 1}}}})
	assert.Error(t, err)

	_, err = NewCatalog(Tables{Equipment: map[string]Equipment{"Helm": {SetName: "Missing"}}})
	assert.Error(t, err)

	_, err = NewCatalog(Tables{Consumables: map[string]Consumable{"Scroll": {Effect: EffectCastSkill, CastSkill: "Nope"}}})
	assert.ErrorIs(t, err, ErrUnknownSkill)
}

func TestCatalog_SkillUnlockFallback(t *testing.T) {
	skills := map[string]Skill{}
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		skills[n] = Skill{}
	}
	cat, err := NewCatalog(Tables{
		Skills:  skills,
		Classes: map[string]Class{"Rogue": {SkillSet: []string{"a", "b", "c", "d", "e"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, cat.KnownSkillsUpTo("Rogue", 1))
	assert.Equal(t, []string{"a", "b"}, cat.KnownSkillsUpTo("Rogue", 9))
	assert.Equal(t, []string{"a", "b", "c"}, cat.KnownSkillsUpTo("Rogue", 10))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, cat.KnownSkillsUpTo("Rogue", 99))

	assert.Equal(t, []string{"d"}, cat.SkillsUnlockedAt("Rogue", 20))
	assert.Empty(t, cat.SkillsUnlockedAt("Rogue", 21))
	assert.Empty(t, cat.SkillsUnlockedAt("Rogue", 50))
}

func TestCatalog_SkillUnlockRules(t *testing.T) {
	cat, err := NewCatalog(Tables{
		Skills: map[string]Skill{"x": {}, "y": {}, "z": {}},
		Classes: map[string]Class{"Cleric": {
			SkillSet: []string{"x"},
			Unlocks: []UnlockRule{
				{Level: 5, Skills: []string{"z"}},
				{Level: 1, Skills: []string{"x", "y"}},
				{Level: 5, Skills: []string{"x"}},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, cat.KnownSkillsUpTo("Cleric", 4))
	assert.Equal(t, []string{"x", "y", "z"}, cat.KnownSkillsUpTo("Cleric", 5))
	assert.Equal(t, []string{"z", "x"}, cat.SkillsUnlockedAt("Cleric", 5))
	assert.Nil(t, cat.KnownSkillsUpTo("Nobody", 5))
}

func TestEquipmentBonus(t *testing.T) {
	e := Equipment{Stats: map[string]int{"attack": 5, "spell_power": 2, "magic_resist": 3, "max_shield": 10}}
	b := e.Bonus()
	assert.Equal(t, 5.0, b.Stats.Attack)
	assert.Equal(t, 2.0, b.Stats.Magic)
	assert.Equal(t, 3.0, b.Stats.MagicDefense)
	assert.Equal(t, 10, b.MaxShield)
}

func TestEnemyIsBoss(t *testing.T) {
	assert.True(t, Enemy{Tier: "BOSS"}.IsBoss())
	assert.True(t, Enemy{Tier: " boss "}.IsBoss())
	assert.False(t, Enemy{Tier: "elite"}.IsBoss())
}

func TestParseStatusKind(t *testing.T) {
	k, ok := ParseStatusKind("Sleep")
	assert.True(t, ok)
	assert.Equal(t, StatusSleep, k)
	_, ok = ParseStatusKind("stun")
	assert.False(t, ok)
}
