package resource

import (
	"fmt"
	"strings"
)

// ---- Definition Structures ----

// StatLine is one row of combat attributes: a base value, a per-level
// growth value, or a flat bonus.
type StatLine struct {
	MaxHP        float64 `json:"max_hp" yaml:"max_hp"`
	MaxMP        float64 `json:"max_mp" yaml:"max_mp"`
	Attack       float64 `json:"atk" yaml:"atk"`
	Magic        float64 `json:"magic" yaml:"magic"`
	Defense      float64 `json:"def" yaml:"def"`
	MagicDefense float64 `json:"mdef" yaml:"mdef"`
	Speed        float64 `json:"spd" yaml:"spd"`
}

// Add returns the field-wise sum.
func (s StatLine) Add(o StatLine) StatLine {
	return StatLine{
		MaxHP:        s.MaxHP + o.MaxHP,
		MaxMP:        s.MaxMP + o.MaxMP,
		Attack:       s.Attack + o.Attack,
		Magic:        s.Magic + o.Magic,
		Defense:      s.Defense + o.Defense,
		MagicDefense: s.MagicDefense + o.MagicDefense,
		Speed:        s.Speed + o.Speed,
	}
}

// Scale returns every field multiplied by k.
func (s StatLine) Scale(k float64) StatLine {
	return StatLine{
		MaxHP:        s.MaxHP * k,
		MaxMP:        s.MaxMP * k,
		Attack:       s.Attack * k,
		Magic:        s.Magic * k,
		Defense:      s.Defense * k,
		MagicDefense: s.MagicDefense * k,
		Speed:        s.Speed * k,
	}
}

// IsZero reports whether every field is zero.
func (s StatLine) IsZero() bool { return s == StatLine{} }

// UnlockRule grants skills once a class reaches Level.
type UnlockRule struct {
	Level  int      `json:"level" yaml:"level"`
	Skills []string `json:"skills" yaml:"skills"`
}

// Class is a playable class.
type Class struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	StartLevel  int          `json:"level" yaml:"level"`
	Base        StatLine     `json:"base" yaml:"base"`
	Growth      StatLine     `json:"growth" yaml:"growth"`
	SkillSet    []string     `json:"skill_set" yaml:"skill_set"`
	Unlocks     []UnlockRule `json:"unlocks" yaml:"unlocks"`
}

// Enemy is an enemy template; instances are spawned per encounter.
type Enemy struct {
	Name        string   `json:"name" yaml:"name"`
	Tier        string   `json:"tier" yaml:"tier"`
	Property    string   `json:"property" yaml:"property"`
	Description string   `json:"description" yaml:"description"`
	BaseLevel   int      `json:"base_level" yaml:"base_level"`
	Base        StatLine `json:"base" yaml:"base"`
	Growth      StatLine `json:"growth" yaml:"growth"`
}

// IsBoss reports whether the template spawns boss encounters.
func (e Enemy) IsBoss() bool { return strings.EqualFold(strings.TrimSpace(e.Tier), "boss") }

// Term is one weighted operand of a component magnitude.
type Term struct {
	Stat StatRef `json:"stat" yaml:"stat"`
	Coef float64 `json:"coef" yaml:"coef"`
}

// Component is one effect of a skill, evaluated in declaration order.
type Component struct {
	Kind       ComponentKind `json:"kind" yaml:"kind"`
	DamageType DamageType    `json:"damage_type" yaml:"damage_type"`
	Resource   HealResource  `json:"resource" yaml:"resource"` // heal only
	Terms      []Term        `json:"terms" yaml:"terms"`
}

// StatusTrigger adds stacks of a status with the given probability.
type StatusTrigger struct {
	Status StatusKind `json:"status" yaml:"status"`
	Target TargetSide `json:"target" yaml:"target"`
	Chance float64    `json:"chance" yaml:"chance"`
	Stacks int        `json:"stacks" yaml:"stacks"`
}

// Skill is a castable skill.
type Skill struct {
	Name          string          `json:"name" yaml:"name"`
	Role          string          `json:"role" yaml:"role"`
	Element       string          `json:"element" yaml:"element"`
	Category      string          `json:"category" yaml:"category"`
	Description   string          `json:"description" yaml:"description"`
	Target        TargetSide      `json:"target" yaml:"target"`
	MPCost        int             `json:"mp_cost" yaml:"mp_cost"`
	Components    []Component     `json:"components" yaml:"components"`
	StatusEffects []StatusTrigger `json:"status_effects" yaml:"status_effects"`
}

// Equipment stat keys as written in the tables.
const (
	EquipStatAttack      = "attack"
	EquipStatSpellPower  = "spell_power"
	EquipStatDefense     = "defense"
	EquipStatMagicResist = "magic_resist"
	EquipStatSpeed       = "speed"
	EquipStatMaxHP       = "max_hp"
	EquipStatMaxMP       = "max_mp"
	EquipStatMaxShield   = "max_shield"
)

// EquipBonus is a compiled equipment stat map.
type EquipBonus struct {
	Stats     StatLine
	MaxShield int
}

// Add returns the sum of two bonuses.
func (b EquipBonus) Add(o EquipBonus) EquipBonus {
	return EquipBonus{Stats: b.Stats.Add(o.Stats), MaxShield: b.MaxShield + o.MaxShield}
}

func compileEquipStats(stats map[string]int) (EquipBonus, error) {
	var b EquipBonus
	for k, v := range stats {
		f := float64(v)
		switch strings.ToLower(k) {
		case EquipStatAttack:
			b.Stats.Attack += f
		case EquipStatSpellPower:
			b.Stats.Magic += f
		case EquipStatDefense:
			b.Stats.Defense += f
		case EquipStatMagicResist:
			b.Stats.MagicDefense += f
		case EquipStatSpeed:
			b.Stats.Speed += f
		case EquipStatMaxHP:
			b.Stats.MaxHP += f
		case EquipStatMaxMP:
			b.Stats.MaxMP += f
		case EquipStatMaxShield:
			b.MaxShield += v
		default:
			return EquipBonus{}, fmt.Errorf("resource: unknown equipment stat %q", k)
		}
	}
	return b, nil
}

// Equipment is a wearable item.
type Equipment struct {
	Name        string         `json:"name" yaml:"name"`
	Slot        EquipCategory  `json:"slot" yaml:"slot"`
	Rarity      string         `json:"rarity" yaml:"rarity"`
	Price       int            `json:"price" yaml:"price"`
	Description string         `json:"description" yaml:"description"`
	Stats       map[string]int `json:"stats" yaml:"stats"`
	SetName     string         `json:"set_name" yaml:"set_name"`
}

// Bonus returns the compiled stat bonus. Stat keys are validated at load.
func (e Equipment) Bonus() EquipBonus {
	b, _ := compileEquipStats(e.Stats)
	return b
}

// SetBonus applies once at least Pieces items of the set are worn.
type SetBonus struct {
	Pieces      int            `json:"pieces" yaml:"pieces"`
	Stats       map[string]int `json:"stats" yaml:"stats"`
	SpecialTags []string       `json:"special_tags" yaml:"special_tags"`
}

// Bonus returns the compiled stat bonus.
func (b SetBonus) Bonus() EquipBonus {
	out, _ := compileEquipStats(b.Stats)
	return out
}

// EquipmentSet groups equipment pieces with tiered bonuses.
type EquipmentSet struct {
	Name    string     `json:"name" yaml:"name"`
	Pieces  []string   `json:"pieces" yaml:"pieces"`
	Bonuses []SetBonus `json:"bonuses" yaml:"bonuses"`
}

// Consumable is a single-use item. Heal amounts are
// flat + max * percent / 100 of the restored pool.
type Consumable struct {
	Name           string           `json:"name" yaml:"name"`
	Category       string           `json:"category" yaml:"category"`
	Description    string           `json:"description" yaml:"description"`
	Rarity         string           `json:"rarity" yaml:"rarity"`
	Effect         ConsumableEffect `json:"effect" yaml:"effect"`
	UseInBattle    bool             `json:"use_in_battle" yaml:"use_in_battle"`
	UseOutOfBattle bool             `json:"use_out_of_battle" yaml:"use_out_of_battle"`
	HP             float64          `json:"hp" yaml:"hp"`
	HPPercent      float64          `json:"hp_percent" yaml:"hp_percent"`
	MP             float64          `json:"mp" yaml:"mp"`
	MPPercent      float64          `json:"mp_percent" yaml:"mp_percent"`
	Shield         float64          `json:"shield" yaml:"shield"`
	ShieldPercent  float64          `json:"shield_percent" yaml:"shield_percent"` // of max HP
	Stats          StatLine         `json:"stats" yaml:"stats"`                   // permanent bonus
	Levels         int              `json:"levels" yaml:"levels"`
	RemoveStatuses []StatusKind     `json:"remove_statuses" yaml:"remove_statuses"`
	RemoveAll      bool             `json:"remove_all" yaml:"remove_all"`
	CastSkill      string           `json:"cast_skill" yaml:"cast_skill"`
	MPOverride     *int             `json:"mp_override" yaml:"mp_override"`
	Price          int              `json:"price" yaml:"price"`
}

// ---- deep copies ----

func (c Class) clone() Class {
	c.SkillSet = append([]string(nil), c.SkillSet...)
	rules := make([]UnlockRule, len(c.Unlocks))
	for i, r := range c.Unlocks {
		rules[i] = UnlockRule{Level: r.Level, Skills: append([]string(nil), r.Skills...)}
	}
	c.Unlocks = rules
	return c
}

func (s Skill) clone() Skill {
	comps := make([]Component, len(s.Components))
	for i, c := range s.Components {
		c.Terms = append([]Term(nil), c.Terms...)
		comps[i] = c
	}
	s.Components = comps
	s.StatusEffects = append([]StatusTrigger(nil), s.StatusEffects...)
	return s
}

func (e Equipment) clone() Equipment {
	e.Stats = cloneIntMap(e.Stats)
	return e
}

func (s EquipmentSet) clone() EquipmentSet {
	s.Pieces = append([]string(nil), s.Pieces...)
	bonuses := make([]SetBonus, len(s.Bonuses))
	for i, b := range s.Bonuses {
		bonuses[i] = SetBonus{
			Pieces:      b.Pieces,
			Stats:       cloneIntMap(b.Stats),
			SpecialTags: append([]string(nil), b.SpecialTags...),
		}
	}
	s.Bonuses = bonuses
	return s
}

func (c Consumable) clone() Consumable {
	c.RemoveStatuses = append([]StatusKind(nil), c.RemoveStatuses...)
	if c.MPOverride != nil {
		v := *c.MPOverride
		c.MPOverride = &v
	}
	return c
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
