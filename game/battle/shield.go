package battle

// ShieldLayer is an embeddable implementation of the shield half of
// Shielded. The zero value holds no shield.
type ShieldLayer struct {
	shield int
}

func (s *ShieldLayer) Shield() int { return s.shield }

// SetShield rounds v and floors it at 0.
func (s *ShieldLayer) SetShield(v float64) {
	s.shield = max(0, RoundHalfUp(v))
}

// AddShield adds the rounded amount; anything below 1 is ignored.
func (s *ShieldLayer) AddShield(amount float64) {
	n := RoundHalfUp(amount)
	if n < 1 {
		return
	}
	s.shield += n
}

// AbsorbDamage draws the rounded incoming damage from the shield and
// returns the part that passes through to HP.
func (s *ShieldLayer) AbsorbDamage(incoming float64) int {
	n := RoundHalfUp(incoming)
	if n <= 0 {
		return 0
	}
	if s.shield <= 0 {
		return n
	}
	if n >= s.shield {
		rest := n - s.shield
		s.shield = 0
		return rest
	}
	s.shield -= n
	return 0
}
