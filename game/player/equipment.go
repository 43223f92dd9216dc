package player

import (
	"fmt"
	"slices"

	"github.com/Sephirode/realDesia/resource"
)

// Equipped returns the equipment name in slot, or "".
func (s *Session) Equipped(slot Slot) string {
	if slot < 0 || slot >= slotCount {
		return ""
	}
	return s.equipped[slot]
}

// EquippedMap returns the occupied slots keyed by slot name.
func (s *Session) EquippedMap() map[string]string {
	out := make(map[string]string)
	for i, name := range s.equipped {
		if name != "" {
			out[Slot(i).String()] = name
		}
	}
	return out
}

// SetEquipped places name (or "" to clear) in slot without touching the
// inventory and recomputes equipment bonuses.
func (s *Session) SetEquipped(slot Slot, name string) error {
	if slot < 0 || slot >= slotCount {
		return fmt.Errorf("player: invalid slot %d", int(slot))
	}
	if name != "" {
		if _, err := s.catalog.Equipment(name); err != nil {
			return err
		}
	}
	s.equipped[slot] = name
	s.recalcEquipment()
	return nil
}

// IsTwoHandEquipped reports whether WEAPON1 holds a two-handed weapon.
func (s *Session) IsTwoHandEquipped() bool {
	name := s.equipped[SlotWeapon1]
	if name == "" {
		return false
	}
	def, err := s.catalog.Equipment(name)
	return err == nil && def.Slot == resource.CategoryTwoHand
}

// SpecialTags returns the tags granted by active set bonuses.
func (s *Session) SpecialTags() []string { return slices.Clone(s.tags) }

// HasSpecialTag reports whether an active set bonus grants tag.
func (s *Session) HasSpecialTag(tag string) bool { return slices.Contains(s.tags, tag) }

// recalcEquipment sums the equipped items and every set bonus whose piece
// threshold is met, clamps HP/MP to the new maxima and resets the shield
// to the equipment base shield.
func (s *Session) recalcEquipment() {
	var gear resource.EquipBonus
	var tags []string
	for _, name := range s.equipped {
		if name == "" {
			continue
		}
		if def, err := s.catalog.Equipment(name); err == nil {
			gear = gear.Add(def.Bonus())
		}
	}
	for _, set := range s.catalog.Sets() {
		count := 0
		for _, piece := range set.Pieces {
			if piece != "" && slices.Contains(s.equipped[:], piece) {
				count++
			}
		}
		for _, b := range set.Bonuses {
			if count < b.Pieces {
				continue
			}
			gear = gear.Add(b.Bonus())
			for _, t := range b.SpecialTags {
				if !slices.Contains(tags, t) {
					tags = append(tags, t)
				}
			}
		}
	}
	s.gear = gear
	s.tags = tags
	s.clampResources()
	s.SetShield(float64(s.BaseShield()))
}
