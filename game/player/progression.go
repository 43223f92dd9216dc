package player

import (
	"slices"

	"github.com/Sephirode/realDesia/game/battle"
)

// LevelUp describes one level gained.
type LevelUp struct {
	Level     int      `json:"level"`
	HPHealed  int      `json:"hp_healed"`
	MPHealed  int      `json:"mp_healed"`
	NewSkills []string `json:"new_skills,omitempty"`
}

func (s *Session) Exp() int64 { return s.exp }

// ExpToNextLevel is the exp needed to leave the current level.
func (s *Session) ExpToNextLevel() int {
	return 100 + (s.level-1)*50
}

// SetLevel sets the level (floored at 1), recomputes known skills and
// clamps HP and MP to the new maxima.
func (s *Session) SetLevel(level int) {
	s.level = max(1, level)
	s.refreshKnownSkills()
	s.clampResources()
}

// GainExp adds exp and applies every level-up it pays for. Each level
// heals half of max HP (at least 1) and half of max MP, then unlocks the
// skills granted at that level. Non-positive amounts are ignored.
func (s *Session) GainExp(amount int64) ([]LevelUp, error) {
	if amount <= 0 {
		return nil, nil
	}
	s.exp += amount

	var ups []LevelUp
	for {
		need := s.ExpToNextLevel()
		if need <= 0 {
			return ups, ErrInvalidExpCurve
		}
		if s.exp < int64(need) {
			break
		}
		s.exp -= int64(need)
		ups = append(ups, s.levelUp())
	}
	return ups, nil
}

// LevelUpTimes grants n levels without consuming exp (n floored at 1).
func (s *Session) LevelUpTimes(n int) []LevelUp {
	n = max(1, n)
	ups := make([]LevelUp, 0, n)
	for range n {
		ups = append(ups, s.levelUp())
	}
	return ups
}

func (s *Session) levelUp() LevelUp {
	s.level++
	st := s.Stats()
	healHP := max(1, battle.RoundHalfUp(float64(st.MaxHP)*0.5))
	healMP := max(0, battle.RoundHalfUp(float64(st.MaxMP)*0.5))

	hpBefore, mpBefore := s.hp, s.mp
	s.SetHP(float64(s.hp + healHP))
	if healMP > 0 {
		s.SetMP(float64(s.mp + healMP))
	}

	up := LevelUp{Level: s.level, HPHealed: s.hp - hpBefore, MPHealed: s.mp - mpBefore}
	for _, name := range s.catalog.SkillsUnlockedAt(s.class.Name, s.level) {
		if name != "" && !slices.Contains(s.known, name) {
			s.known = append(s.known, name)
			up.NewSkills = append(up.NewSkills, name)
		}
	}
	return up
}

// ApplyRewards credits battle rewards.
func (s *Session) ApplyRewards(r battle.Rewards) ([]LevelUp, error) {
	s.AddGold(int64(r.Gold))
	return s.GainExp(int64(r.Exp))
}

func (s *Session) refreshKnownSkills() {
	s.known = s.catalog.KnownSkillsUpTo(s.class.Name, s.level)
}
