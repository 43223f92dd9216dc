package player

import "maps"

// AddItem adds count of name; non-positive counts are ignored.
func (s *Session) AddItem(name string, count int) {
	if count <= 0 || name == "" {
		return
	}
	s.inventory[name] += count
}

// RemoveItem removes count of name. It fails without change when count is
// not positive or the stack is too small.
func (s *Session) RemoveItem(name string, count int) bool {
	cur := s.inventory[name]
	if count <= 0 || cur < count {
		return false
	}
	if cur == count {
		delete(s.inventory, name)
	} else {
		s.inventory[name] = cur - count
	}
	return true
}

// ItemCount returns how many of name the player carries.
func (s *Session) ItemCount(name string) int { return s.inventory[name] }

// Inventory returns a copy of the inventory.
func (s *Session) Inventory() map[string]int { return maps.Clone(s.inventory) }
