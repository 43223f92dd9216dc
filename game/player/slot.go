package player

import "strings"

// Slot is an equipment slot on a player.
type Slot int

const (
	SlotHelmet Slot = iota
	SlotChest
	SlotLegs
	SlotBoots
	SlotCloak
	SlotRing1
	SlotRing2
	SlotWeapon1
	SlotWeapon2
	slotCount
)

var slotNames = [slotCount]string{
	"HELMET", "CHEST", "LEGS", "BOOTS", "CLOAK", "RING1", "RING2", "WEAPON1", "WEAPON2",
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return "UNKNOWN"
	}
	return slotNames[s]
}

func (s Slot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseSlot resolves a slot name case-insensitively.
func ParseSlot(name string) (Slot, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// AllSlots returns every slot in display order.
func AllSlots() []Slot {
	out := make([]Slot, slotCount)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}
