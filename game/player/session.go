package player

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Sephirode/realDesia/game/battle"
	"github.com/Sephirode/realDesia/resource"
	"github.com/google/uuid"
)

// ErrInvalidExpCurve is returned when the next-level requirement is not positive.
var ErrInvalidExpCurve = errors.New("player: exp to next level must be > 0")

// Session is one player's character state. It implements
// battle.PlayerCombatant.
//
// Session methods are not synchronised; callers that share a session
// between goroutines go through SessionManager.With.
type Session struct {
	battle.ShieldLayer

	id      string
	name    string
	class   resource.Class
	catalog *resource.Catalog

	level int
	exp   int64
	hp    int
	mp    int
	gold  int64

	permanent resource.StatLine
	equipped  [slotCount]string
	gear      resource.EquipBonus
	tags      []string

	inventory map[string]int
	known     []string
	statuses  battle.StatusLedger

	mu sync.Mutex
}

// NewSession creates a fresh character of the given class at the class's
// starting level with full HP and MP. An empty name uses the class name.
func NewSession(catalog *resource.Catalog, className, name string) (*Session, error) {
	cl, err := catalog.Class(className)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = cl.Name
	}
	s := &Session{
		id:        uuid.NewString(),
		name:      name,
		class:     cl,
		catalog:   catalog,
		level:     max(1, cl.StartLevel),
		inventory: make(map[string]int),
	}
	s.refreshKnownSkills()
	st := s.Stats()
	s.hp, s.mp = st.MaxHP, st.MaxMP
	s.recalcEquipment()
	return s, nil
}

func (s *Session) ID() string        { return s.id }
func (s *Session) Name() string      { return s.name }
func (s *Session) ClassName() string { return s.class.Name }
func (s *Session) Level() int        { return s.level }

// Stats aggregates class base and growth at the current level with
// permanent bonuses and equipment (including active set bonuses).
func (s *Session) Stats() battle.Stats {
	return battle.Aggregate(s.level, s.class.Base, s.class.Growth, s.permanent, s.gear.Stats)
}

func (s *Session) HP() int    { return s.hp }
func (s *Session) MP() int    { return s.mp }
func (s *Session) MaxHP() int { return s.Stats().MaxHP }
func (s *Session) MaxMP() int { return s.Stats().MaxMP }

func (s *Session) SetHP(v float64) { s.hp = battle.ClampResource(v, s.MaxHP()) }
func (s *Session) SetMP(v float64) { s.mp = battle.ClampResource(v, s.MaxMP()) }

// BaseShield is the shield granted by equipment. It survives battles.
func (s *Session) BaseShield() int { return max(0, s.gear.MaxShield) }

func (s *Session) Statuses() *battle.StatusLedger { return &s.statuses }

// KnownSkill returns the definition of a learned skill.
func (s *Session) KnownSkill(name string) (resource.Skill, bool) {
	if !slices.Contains(s.known, name) {
		return resource.Skill{}, false
	}
	sk, err := s.catalog.Skill(name)
	if err != nil {
		return resource.Skill{}, false
	}
	return sk, true
}

// KnownSkills returns learned skill names in unlock order.
func (s *Session) KnownSkills() []string { return slices.Clone(s.known) }

// Catalog returns the definition catalog the session resolves names against.
func (s *Session) Catalog() *resource.Catalog { return s.catalog }

// Permanent returns the accumulated permanent stat bonuses.
func (s *Session) Permanent() resource.StatLine { return s.permanent }

// AddPermanentStats adds permanent bonuses. Each component is rounded
// to a whole number before it is applied.
func (s *Session) AddPermanentStats(d resource.StatLine) {
	s.permanent = s.permanent.Add(resource.StatLine{
		MaxHP:        float64(battle.RoundHalfUp(d.MaxHP)),
		MaxMP:        float64(battle.RoundHalfUp(d.MaxMP)),
		Attack:       float64(battle.RoundHalfUp(d.Attack)),
		Magic:        float64(battle.RoundHalfUp(d.Magic)),
		Defense:      float64(battle.RoundHalfUp(d.Defense)),
		MagicDefense: float64(battle.RoundHalfUp(d.MagicDefense)),
		Speed:        float64(battle.RoundHalfUp(d.Speed)),
	})
	s.clampResources()
}

func (s *Session) Gold() int64 { return s.gold }

// AddGold adds n gold; non-positive amounts are ignored.
func (s *Session) AddGold(n int64) {
	if n > 0 {
		s.gold += n
	}
}

// SpendGold removes n gold if the balance covers it.
func (s *Session) SpendGold(n int64) bool {
	if n < 0 || s.gold < n {
		return false
	}
	s.gold -= n
	return true
}

// EndBattle drops battle-only state: statuses and any shield above the
// equipment base shield.
func (s *Session) EndBattle() { battle.ResetForBattle(s) }

func (s *Session) clampResources() {
	s.SetHP(float64(s.hp))
	s.SetMP(float64(s.mp))
}

func (s *Session) String() string {
	return fmt.Sprintf("%s (%s Lv.%d)", s.name, s.class.Name, s.level)
}
