package item

import (
	"errors"
	"fmt"

	"github.com/Sephirode/realDesia/game/player"
	"github.com/Sephirode/realDesia/resource"
	"go.uber.org/zap"
)

var (
	// ErrTwoHandEquipped is returned when a shield or second weapon is
	// equipped while WEAPON1 holds a two-handed weapon.
	ErrTwoHandEquipped = errors.New("item: a two-handed weapon is equipped")
	// ErrSlotChoiceRequired is returned when both candidate slots are taken
	// and no slot was chosen.
	ErrSlotChoiceRequired = errors.New("item: both slots are occupied, choose one")
	// ErrWrongSlot is returned when the chosen slot does not fit the item.
	ErrWrongSlot = errors.New("item: slot does not fit this equipment")
	// ErrSlotEmpty is returned when unequipping an empty slot.
	ErrSlotEmpty = errors.New("item: slot is empty")
)

// AutoSlot lets Equip pick the slot.
const AutoSlot player.Slot = -1

// EquipResult reports where an item went and what it displaced.
type EquipResult struct {
	Slot     player.Slot `json:"slot"`
	Returned []string    `json:"returned,omitempty"`
}

// EquipService handles equip and unequip operations.
type EquipService struct {
	logger *zap.Logger
}

// NewEquipService creates a new EquipService.
func NewEquipService(logger *zap.Logger) *EquipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipService{logger: logger}
}

// Equip moves one name from the inventory into its slot. choice selects
// the ring or one-hand slot when both are taken; pass AutoSlot otherwise.
// Displaced items go back to the inventory. On failure the inventory and
// slots are left unchanged.
func (svc *EquipService) Equip(s *player.Session, name string, choice player.Slot) (EquipResult, error) {
	def, err := s.Catalog().Equipment(name)
	if err != nil {
		return EquipResult{}, err
	}
	if !s.RemoveItem(name, 1) {
		return EquipResult{}, fmt.Errorf("%w: %s", ErrNotOwned, name)
	}

	res, err := svc.place(s, name, def.Slot, choice)
	if err != nil {
		s.AddItem(name, 1)
		return EquipResult{}, err
	}
	for _, back := range res.Returned {
		s.AddItem(back, 1)
	}
	svc.logger.Debug("equipped",
		zap.String("session_id", s.ID()),
		zap.String("item", name),
		zap.Stringer("slot", res.Slot))
	return res, nil
}

func (svc *EquipService) place(s *player.Session, name string, cat resource.EquipCategory, choice player.Slot) (EquipResult, error) {
	var res EquipResult
	replace := func(slot player.Slot) error {
		if prev := s.Equipped(slot); prev != "" {
			res.Returned = append(res.Returned, prev)
		}
		res.Slot = slot
		return s.SetEquipped(slot, name)
	}

	switch cat {
	case resource.CategoryHelmet:
		return res, replace(player.SlotHelmet)
	case resource.CategoryChest:
		return res, replace(player.SlotChest)
	case resource.CategoryLegs:
		return res, replace(player.SlotLegs)
	case resource.CategoryBoots:
		return res, replace(player.SlotBoots)
	case resource.CategoryCloak:
		return res, replace(player.SlotCloak)
	case resource.CategoryRing:
		slot, err := pickSlot(s, player.SlotRing1, player.SlotRing2, choice)
		if err != nil {
			return res, err
		}
		return res, replace(slot)
	case resource.CategoryShield:
		if s.IsTwoHandEquipped() {
			return res, ErrTwoHandEquipped
		}
		return res, replace(player.SlotWeapon2)
	case resource.CategoryTwoHand:
		if err := replace(player.SlotWeapon1); err != nil {
			return res, err
		}
		if w2 := s.Equipped(player.SlotWeapon2); w2 != "" {
			res.Returned = append(res.Returned, w2)
			if err := s.SetEquipped(player.SlotWeapon2, ""); err != nil {
				return res, err
			}
		}
		return res, nil
	case resource.CategoryOneHand:
		if s.IsTwoHandEquipped() {
			return res, ErrTwoHandEquipped
		}
		slot, err := pickSlot(s, player.SlotWeapon1, player.SlotWeapon2, choice)
		if err != nil {
			return res, err
		}
		return res, replace(slot)
	}
	return res, fmt.Errorf("item: unsupported equipment category %s", cat)
}

// pickSlot honours a valid explicit choice, else takes the first empty slot.
func pickSlot(s *player.Session, a, b, choice player.Slot) (player.Slot, error) {
	switch choice {
	case a, b:
		return choice, nil
	case AutoSlot:
	default:
		return 0, fmt.Errorf("%w: %s", ErrWrongSlot, choice)
	}
	if s.Equipped(a) == "" {
		return a, nil
	}
	if s.Equipped(b) == "" {
		return b, nil
	}
	return 0, ErrSlotChoiceRequired
}

// Unequip clears slot and puts its item back into the inventory.
func (svc *EquipService) Unequip(s *player.Session, slot player.Slot) (string, error) {
	name := s.Equipped(slot)
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrSlotEmpty, slot)
	}
	if err := s.SetEquipped(slot, ""); err != nil {
		return "", err
	}
	s.AddItem(name, 1)
	svc.logger.Debug("unequipped",
		zap.String("session_id", s.ID()),
		zap.String("item", name),
		zap.Stringer("slot", slot))
	return name, nil
}
