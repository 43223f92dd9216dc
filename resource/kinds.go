package resource

import (
	"fmt"
	"strings"
)

// Enumerations used by the definition tables. Each one decodes from its
// lowercase table spelling and rejects anything else, so an unknown kind
// fails the load instead of being skipped at evaluation time.

// DamageType selects the mitigation rule applied to a hit.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageMagic
	DamageTrue
)

var damageTypeNames = []string{"physical", "magic", "true"}

func (d DamageType) String() string { return nameOf(damageTypeNames, int(d)) }

func (d DamageType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DamageType) UnmarshalText(b []byte) error {
	i, err := parseName(damageTypeNames, "damage type", string(b))
	if err != nil {
		return err
	}
	*d = DamageType(i)
	return nil
}

// TargetSide picks the side a skill or trigger lands on, relative to the caster.
type TargetSide int

const (
	TargetSelf TargetSide = iota
	TargetEnemy
)

func (t TargetSide) String() string {
	if t == TargetEnemy {
		return "enemy"
	}
	return "self"
}

func (t TargetSide) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText accepts "enemy"; "self", "ally" and "" resolve to the caster.
func (t *TargetSide) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "enemy":
		*t = TargetEnemy
	case "", "self", "ally":
		*t = TargetSelf
	default:
		return fmt.Errorf("resource: unknown target %q", string(b))
	}
	return nil
}

// StatusKind is one of the stacking status effects.
type StatusKind int

const (
	StatusBleed StatusKind = iota + 1
	StatusPoison
	StatusBurn
	StatusParalysis
	StatusPanic
	StatusFreeze
	StatusSleep
)

var statusNames = []string{"", "bleed", "poison", "burn", "paralysis", "panic", "freeze", "sleep"}

// AllStatuses lists every status kind in declaration order.
var AllStatuses = []StatusKind{
	StatusBleed, StatusPoison, StatusBurn,
	StatusParalysis, StatusPanic, StatusFreeze, StatusSleep,
}

func (s StatusKind) String() string { return nameOf(statusNames, int(s)) }

func (s StatusKind) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StatusKind) UnmarshalText(b []byte) error {
	i, err := parseName(statusNames, "status", string(b))
	if err != nil || i == 0 {
		return fmt.Errorf("resource: unknown status %q", string(b))
	}
	*s = StatusKind(i)
	return nil
}

// ParseStatusKind looks up a status kind by its table name.
func ParseStatusKind(name string) (StatusKind, bool) {
	var s StatusKind
	if err := s.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return s, true
}

// ComponentKind is the closed set of skill effect components.
type ComponentKind int

const (
	ComponentDamage ComponentKind = iota
	ComponentHeal
	ComponentShield
)

var componentNames = []string{"damage", "heal", "shield"}

func (c ComponentKind) String() string { return nameOf(componentNames, int(c)) }

func (c ComponentKind) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ComponentKind) UnmarshalText(b []byte) error {
	i, err := parseName(componentNames, "component kind", string(b))
	if err != nil {
		return err
	}
	*c = ComponentKind(i)
	return nil
}

// HealResource is the pool a heal component restores. HealUnspecified
// only exists between decoding and catalog normalization.
type HealResource int

const (
	HealUnspecified HealResource = iota
	HealHP
	HealMP
)

var healResourceNames = []string{"", "hp", "mp"}

func (h HealResource) String() string { return nameOf(healResourceNames, int(h)) }

func (h HealResource) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HealResource) UnmarshalText(b []byte) error {
	i, err := parseName(healResourceNames, "heal resource", string(b))
	if err != nil {
		return err
	}
	*h = HealResource(i)
	return nil
}

// StatRef names the value a skill term reads.
type StatRef int

const (
	RefConstant StatRef = iota
	RefSelfAttack
	RefSelfMagic
	RefSelfDefense
	RefSelfMagicDefense
	RefSelfSpeed
	RefSelfHP
	RefSelfMaxHP
	RefSelfMissingHP
	RefSelfSpentMP
	RefTargetAttack
	RefTargetMagic
	RefTargetDefense
	RefTargetMagicDefense
	RefTargetSpeed
	RefTargetHP
	RefTargetMaxHP
	RefTargetMissingHP
)

var statRefNames = []string{
	"constant",
	"self_attack", "self_magic", "self_def", "self_mdef", "self_spd",
	"self_hp", "self_max_hp", "self_missing_hp", "self_spent_mp",
	"target_attack", "target_magic", "target_def", "target_mdef", "target_spd",
	"target_hp", "target_max_hp", "target_missing_hp",
}

func (r StatRef) String() string { return nameOf(statRefNames, int(r)) }

func (r StatRef) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *StatRef) UnmarshalText(b []byte) error {
	i, err := parseName(statRefNames, "stat reference", string(b))
	if err != nil {
		return err
	}
	*r = StatRef(i)
	return nil
}

// ConsumableEffect is the closed set of consumable item behaviours.
type ConsumableEffect int

const (
	EffectHealHP ConsumableEffect = iota
	EffectHealMP
	EffectRestoreFull
	EffectAddShield
	EffectPermStats
	EffectMixed
	EffectLevelUp
	EffectRemoveStatus
	EffectEscape
	EffectCastSkill
	EffectDebug
)

var effectNames = []string{
	"heal_hp", "heal_mp", "restore_full", "add_shield", "perm_stats",
	"mixed", "level_up", "remove_status", "escape", "cast_skill", "debug",
}

func (e ConsumableEffect) String() string { return nameOf(effectNames, int(e)) }

func (e ConsumableEffect) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *ConsumableEffect) UnmarshalText(b []byte) error {
	i, err := parseName(effectNames, "consumable effect", string(b))
	if err != nil {
		return err
	}
	*e = ConsumableEffect(i)
	return nil
}

// EquipCategory is the slot family a piece of equipment fits.
type EquipCategory int

const (
	CategoryHelmet EquipCategory = iota
	CategoryChest
	CategoryLegs
	CategoryBoots
	CategoryCloak
	CategoryRing
	CategoryShield
	CategoryOneHand
	CategoryTwoHand
)

var categoryNames = []string{
	"helmet", "chest", "legs", "boots", "cloak", "ring", "shield", "one_hand", "two_hand",
}

func (c EquipCategory) String() string { return nameOf(categoryNames, int(c)) }

func (c EquipCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *EquipCategory) UnmarshalText(b []byte) error {
	i, err := parseName(categoryNames, "equipment slot", string(b))
	if err != nil {
		return err
	}
	*c = EquipCategory(i)
	return nil
}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseName(names []string, what, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("resource: unknown %s %q", what, s)
}
