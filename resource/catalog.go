package resource

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Lookup failures. Combat treats these as caller defects, not game events.
var (
	ErrUnknownClass      = errors.New("resource: unknown class")
	ErrUnknownEnemy      = errors.New("resource: unknown enemy")
	ErrUnknownSkill      = errors.New("resource: unknown skill")
	ErrUnknownEquipment  = errors.New("resource: unknown equipment")
	ErrUnknownConsumable = errors.New("resource: unknown consumable")
)

// Tables is the raw content of the definition files, keyed by name.
type Tables struct {
	Classes     map[string]Class
	Enemies     map[string]Enemy
	Skills      map[string]Skill
	Equipment   map[string]Equipment
	Sets        map[string]EquipmentSet
	Consumables map[string]Consumable
}

// Catalog is the validated, read-only definition provider. Every lookup
// returns a deep copy so callers cannot mutate shared definitions.
type Catalog struct {
	classes     map[string]Class
	enemies     map[string]Enemy
	skills      map[string]Skill
	equipment   map[string]Equipment
	sets        map[string]EquipmentSet
	consumables map[string]Consumable
}

// NewCatalog validates the tables, fills missing names from their keys
// and resolves legacy heal markers.
func NewCatalog(t Tables) (*Catalog, error) {
	c := &Catalog{
		classes:     make(map[string]Class, len(t.Classes)),
		enemies:     make(map[string]Enemy, len(t.Enemies)),
		skills:      make(map[string]Skill, len(t.Skills)),
		equipment:   make(map[string]Equipment, len(t.Equipment)),
		sets:        make(map[string]EquipmentSet, len(t.Sets)),
		consumables: make(map[string]Consumable, len(t.Consumables)),
	}

	for key, s := range t.Skills {
		s = s.clone()
		if s.Name == "" {
			s.Name = key
		}
		for i := range s.Components {
			if s.Components[i].Kind == ComponentHeal && s.Components[i].Resource == HealUnspecified {
				s.Components[i].Resource = legacyHealResource(s)
			}
		}
		c.skills[key] = s
	}

	for key, e := range t.Enemies {
		if e.Name == "" {
			e.Name = key
		}
		c.enemies[key] = e
	}

	for key, cl := range t.Classes {
		cl = cl.clone()
		if cl.Name == "" {
			cl.Name = key
		}
		for _, name := range cl.SkillSet {
			if _, ok := c.skills[name]; !ok {
				return nil, fmt.Errorf("class %s skill set: %w: %s", key, ErrUnknownSkill, name)
			}
		}
		for _, r := range cl.Unlocks {
			for _, name := range r.Skills {
				if _, ok := c.skills[name]; !ok {
					return nil, fmt.Errorf("class %s unlock rule: %w: %s", key, ErrUnknownSkill, name)
				}
			}
		}
		sort.SliceStable(cl.Unlocks, func(i, j int) bool { return cl.Unlocks[i].Level < cl.Unlocks[j].Level })
		c.classes[key] = cl
	}

	for key, s := range t.Sets {
		s = s.clone()
		if s.Name == "" {
			s.Name = key
		}
		for _, b := range s.Bonuses {
			if _, err := compileEquipStats(b.Stats); err != nil {
				return nil, fmt.Errorf("set %s: %w", key, err)
			}
		}
		c.sets[key] = s
	}

	for key, e := range t.Equipment {
		e = e.clone()
		if e.Name == "" {
			e.Name = key
		}
		if _, err := compileEquipStats(e.Stats); err != nil {
			return nil, fmt.Errorf("equipment %s: %w", key, err)
		}
		if e.SetName != "" {
			if _, ok := c.sets[e.SetName]; !ok {
				return nil, fmt.Errorf("equipment %s: unknown set %q", key, e.SetName)
			}
		}
		c.equipment[key] = e
	}

	for key, cs := range t.Consumables {
		cs = cs.clone()
		if cs.Name == "" {
			cs.Name = key
		}
		if cs.Effect == EffectCastSkill {
			if _, ok := c.skills[cs.CastSkill]; !ok {
				return nil, fmt.Errorf("consumable %s: %w: %q", key, ErrUnknownSkill, cs.CastSkill)
			}
		}
		c.consumables[key] = cs
	}
	return c, nil
}

// legacyHealResource classifies a heal without an explicit resource by
// the MP marker in the skill's name or description.
func legacyHealResource(s Skill) HealResource {
	name := strings.ToLower(s.Name)
	if strings.Contains(name, "마나") || strings.Contains(name, "mp") || strings.Contains(s.Description, "마나") {
		return HealMP
	}
	return HealHP
}

func (c *Catalog) Class(name string) (Class, error) {
	v, ok := c.classes[name]
	if !ok {
		return Class{}, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return v.clone(), nil
}

func (c *Catalog) Enemy(name string) (Enemy, error) {
	v, ok := c.enemies[name]
	if !ok {
		return Enemy{}, fmt.Errorf("%w: %q", ErrUnknownEnemy, name)
	}
	return v, nil
}

func (c *Catalog) Skill(name string) (Skill, error) {
	v, ok := c.skills[name]
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrUnknownSkill, name)
	}
	return v.clone(), nil
}

func (c *Catalog) Equipment(name string) (Equipment, error) {
	v, ok := c.equipment[name]
	if !ok {
		return Equipment{}, fmt.Errorf("%w: %q", ErrUnknownEquipment, name)
	}
	return v.clone(), nil
}

// IsEquipment reports whether name is a known piece of equipment.
func (c *Catalog) IsEquipment(name string) bool {
	_, ok := c.equipment[name]
	return ok
}

func (c *Catalog) Consumable(name string) (Consumable, error) {
	v, ok := c.consumables[name]
	if !ok {
		return Consumable{}, fmt.Errorf("%w: %q", ErrUnknownConsumable, name)
	}
	return v.clone(), nil
}

// Sets returns every equipment set ordered by name.
func (c *Catalog) Sets() []EquipmentSet {
	out := make([]EquipmentSet, 0, len(c.sets))
	for _, name := range sortedKeys(c.sets) {
		out = append(out, c.sets[name].clone())
	}
	return out
}

func (c *Catalog) ClassNames() []string      { return sortedKeys(c.classes) }
func (c *Catalog) EnemyNames() []string      { return sortedKeys(c.enemies) }
func (c *Catalog) SkillNames() []string      { return sortedKeys(c.skills) }
func (c *Catalog) EquipmentNames() []string  { return sortedKeys(c.equipment) }
func (c *Catalog) ConsumableNames() []string { return sortedKeys(c.consumables) }

// KnownSkillsUpTo returns every skill a class has learned by level, in
// unlock order without duplicates. Classes without explicit rules learn
// the first two entries of their skill set at level 1 and one more at
// every tenth level.
func (c *Catalog) KnownSkillsUpTo(class string, level int) []string {
	cl, ok := c.classes[class]
	if !ok {
		return nil
	}
	level = max(1, level)
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	if len(cl.Unlocks) > 0 {
		for _, r := range cl.Unlocks {
			if r.Level <= level {
				for _, s := range r.Skills {
					add(s)
				}
			}
		}
		return out
	}
	for i := 0; i < len(cl.SkillSet) && i < 2; i++ {
		add(cl.SkillSet[i])
	}
	for k := 0; k < level/10; k++ {
		if idx := 2 + k; idx < len(cl.SkillSet) {
			add(cl.SkillSet[idx])
		}
	}
	return out
}

// SkillsUnlockedAt returns the skills newly granted exactly at level.
func (c *Catalog) SkillsUnlockedAt(class string, level int) []string {
	cl, ok := c.classes[class]
	if !ok {
		return nil
	}
	level = max(1, level)
	if len(cl.Unlocks) > 0 {
		var out []string
		for _, r := range cl.Unlocks {
			if r.Level == level {
				out = append(out, r.Skills...)
			}
		}
		return out
	}
	if level%10 != 0 {
		return nil
	}
	if idx := 2 + (level/10 - 1); idx < len(cl.SkillSet) {
		return []string{cl.SkillSet[idx]}
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
