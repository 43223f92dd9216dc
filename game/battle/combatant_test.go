package battle

import (
	"math"
	"testing"

	"github.com/Sephirode/realDesia/resource"
)

// testUnit is a minimal PlayerCombatant with fixed stats.
type testUnit struct {
	ShieldLayer
	name       string
	level      int
	stats      Stats
	hp, mp     int
	baseShield int
	statuses   StatusLedger
	skills     map[string]resource.Skill
}

func newUnit(name string, st Stats) *testUnit {
	return &testUnit{name: name, level: 1, stats: st, hp: st.MaxHP, mp: st.MaxMP}
}

func (u *testUnit) Name() string            { return u.name }
func (u *testUnit) Level() int              { return u.level }
func (u *testUnit) Stats() Stats            { return u.stats }
func (u *testUnit) HP() int                 { return u.hp }
func (u *testUnit) MP() int                 { return u.mp }
func (u *testUnit) MaxHP() int              { return u.stats.MaxHP }
func (u *testUnit) MaxMP() int              { return u.stats.MaxMP }
func (u *testUnit) SetHP(v float64)         { u.hp = ClampResource(v, u.stats.MaxHP) }
func (u *testUnit) SetMP(v float64)         { u.mp = ClampResource(v, u.stats.MaxMP) }
func (u *testUnit) BaseShield() int         { return u.baseShield }
func (u *testUnit) Statuses() *StatusLedger { return &u.statuses }

func (u *testUnit) KnownSkill(name string) (resource.Skill, bool) {
	s, ok := u.skills[name]
	return s, ok
}

// fakeRNG replays queued values; an empty queue yields 0.
type fakeRNG struct {
	floats []float64
	ints   []int
}

func (r *fakeRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *fakeRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func TestAggregate(t *testing.T) {
	base := resource.StatLine{MaxHP: 100, MaxMP: 30, Attack: 10.4, Magic: 5, Defense: 4, MagicDefense: 2, Speed: 7}
	growth := resource.StatLine{MaxHP: 10, Attack: 1.5, Speed: 0.5}

	st := Aggregate(3, base, growth)
	if st.MaxHP != 120 {
		t.Errorf("MaxHP = %d, want 120", st.MaxHP)
	}
	// 10.4 + 1.5*2 = 13.4
	if st.Attack != 13 {
		t.Errorf("Attack = %d, want 13", st.Attack)
	}
	// 7 + 0.5*2 = 8
	if st.Speed != 8 {
		t.Errorf("Speed = %d, want 8", st.Speed)
	}

	bonus := resource.StatLine{Attack: 0.6, Defense: 2.5}
	st = Aggregate(3, base, growth, bonus)
	if st.Attack != 14 {
		t.Errorf("Attack with bonus = %d, want 14", st.Attack)
	}
	if st.Defense != 7 {
		t.Errorf("Defense with bonus = %d, want 7", st.Defense)
	}
}

func TestAggregateFloors(t *testing.T) {
	st := Aggregate(1, resource.StatLine{MaxHP: -50, MaxMP: -3, Attack: -1, Speed: -9}, resource.StatLine{})
	if st.MaxHP != 1 {
		t.Errorf("MaxHP = %d, want floor 1", st.MaxHP)
	}
	if st.MaxMP != 0 || st.Attack != 0 || st.Speed != 0 {
		t.Errorf("negative stats not floored at 0: %+v", st)
	}
}

func TestAggregateLevelBelowOne(t *testing.T) {
	st := Aggregate(0, resource.StatLine{MaxHP: 50}, resource.StatLine{MaxHP: 10})
	if st.MaxHP != 50 {
		t.Errorf("MaxHP = %d, want 50", st.MaxHP)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 1}, {1.49, 1}, {2.5, 3}, {-0.5, 0}, {-1.5, -1}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetHPClampRoundTrip(t *testing.T) {
	u := newUnit("Hero", Stats{MaxHP: 100, MaxMP: 20})
	for _, x := range []float64{-1e9, -1, -0.4, 0, 0.5, 33.3, 99.5, 100, 100.2, 1e9} {
		u.SetHP(x)
		if u.HP() < 0 || u.HP() > u.MaxHP() {
			t.Fatalf("SetHP(%v) -> %d, out of [0,%d]", x, u.HP(), u.MaxHP())
		}
		before := u.HP()
		u.SetHP(float64(u.HP()))
		if u.HP() != before {
			t.Errorf("SetHP(HP()) changed %d -> %d", before, u.HP())
		}
	}
}

func TestResetForBattle(t *testing.T) {
	u := newUnit("Hero", Stats{MaxHP: 100})
	u.baseShield = 12
	u.AddShield(40)
	u.Statuses().Add(Poison, 3)
	u.Statuses().Add(Sleep, 1)

	ResetForBattle(u)
	if u.Shield() != 12 {
		t.Errorf("shield = %d, want 12", u.Shield())
	}
	if len(u.Statuses().Snapshot()) != 0 {
		t.Errorf("statuses not cleared: %v", u.Statuses().Snapshot())
	}
}
