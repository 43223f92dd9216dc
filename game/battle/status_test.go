package battle

import "testing"

func TestStatusLedgerStacks(t *testing.T) {
	var l StatusLedger
	if l.Stacks(Poison) != 0 || l.Has(Poison) {
		t.Fatal("zero ledger should be empty")
	}
	l.Add(Poison, 3)
	l.Add(Poison, 2)
	l.Add(Burn, 0)
	l.Add(Burn, -4)
	if got := l.Stacks(Poison); got != 5 {
		t.Errorf("poison = %d, want 5", got)
	}
	if l.Has(Burn) {
		t.Error("non-positive add should be ignored")
	}

	l.Reduce(Poison, 2)
	if got := l.Stacks(Poison); got != 3 {
		t.Errorf("poison = %d, want 3", got)
	}
	l.Reduce(Poison, 10)
	if _, ok := l.Snapshot()[Poison]; ok {
		t.Error("key should be removed when stacks reach 0")
	}

	l.Add(Bleed, 1)
	l.Add(Sleep, 1)
	l.Clear(Bleed)
	if l.Has(Bleed) || !l.Has(Sleep) {
		t.Errorf("Clear removed the wrong status: %v", l.Snapshot())
	}
	l.ClearAll()
	if len(l.Snapshot()) != 0 {
		t.Errorf("ClearAll left %v", l.Snapshot())
	}
}

func TestStatusLedgerSnapshotIsCopy(t *testing.T) {
	var l StatusLedger
	l.Add(Freeze, 2)
	snap := l.Snapshot()
	snap[Freeze] = 99
	if l.Stacks(Freeze) != 2 {
		t.Errorf("snapshot aliases ledger: %d", l.Stacks(Freeze))
	}
}

func TestOnHitTaken(t *testing.T) {
	u := newUnit("Target", Stats{MaxHP: 10})
	u.Statuses().Add(Sleep, 4)
	u.Statuses().Add(Burn, 5)
	u.Statuses().Add(Poison, 2)

	OnHitTaken(u, 2)
	if u.Statuses().Has(Sleep) {
		t.Error("sleep should be cleared by a hit")
	}
	if got := u.Statuses().Stacks(Burn); got != 3 {
		t.Errorf("burn = %d, want 3", got)
	}
	if got := u.Statuses().Stacks(Poison); got != 2 {
		t.Errorf("poison = %d, want 2 (unaffected by hits)", got)
	}

	OnHitTaken(u, 0)
	if got := u.Statuses().Stacks(Burn); got != 3 {
		t.Errorf("hitCount 0 should be ignored, burn = %d", got)
	}
}

func TestBlockReasonPriority(t *testing.T) {
	tests := []struct {
		name   string
		add    []StatusKind
		want   StatusKind
		blocks bool
	}{
		{"none", nil, 0, false},
		{"dot only", []StatusKind{Bleed, Poison, Burn}, 0, false},
		{"panic", []StatusKind{Panic}, Panic, true},
		{"paralysis over panic", []StatusKind{Panic, Paralysis}, Paralysis, true},
		{"freeze over paralysis", []StatusKind{Paralysis, Freeze}, Freeze, true},
		{"sleep over all", []StatusKind{Panic, Freeze, Sleep, Paralysis}, Sleep, true},
	}
	for _, tt := range tests {
		u := newUnit("U", Stats{MaxHP: 1})
		for _, k := range tt.add {
			u.Statuses().Add(k, 1)
		}
		got, blocked := BlockReason(u)
		if blocked != tt.blocks || got != tt.want {
			t.Errorf("%s: BlockReason = (%v,%v), want (%v,%v)", tt.name, got, blocked, tt.want, tt.blocks)
		}
		if BlocksAction(u) != tt.blocks {
			t.Errorf("%s: BlocksAction = %v", tt.name, !tt.blocks)
		}
	}
}

func TestApplyEndPhaseComposition(t *testing.T) {
	u := newUnit("U", Stats{MaxHP: 10})
	u.Statuses().Add(Bleed, 2)
	u.Statuses().Add(Poison, 3)
	u.Statuses().Add(Burn, 1)

	dot := ApplyEndPhase(u)
	if dot != 6 {
		t.Errorf("dot = %d, want 6", dot)
	}
	if u.HP() != 4 {
		t.Errorf("hp = %d, want 4", u.HP())
	}
	if got := u.Statuses().Stacks(Poison); got != 2 {
		t.Errorf("poison = %d, want 2", got)
	}
	if got := u.Statuses().Stacks(Burn); got != 1 {
		t.Errorf("burn = %d, want 1", got)
	}
	if got := u.Statuses().Stacks(Bleed); got != 2 {
		t.Errorf("bleed = %d, want 2", got)
	}
}

func TestApplyEndPhaseShieldFirst(t *testing.T) {
	u := newUnit("U", Stats{MaxHP: 10})
	u.AddShield(5)
	u.Statuses().Add(Poison, 7)

	dot := ApplyEndPhase(u)
	if dot != 7 {
		t.Errorf("dot = %d, want 7", dot)
	}
	if u.Shield() != 0 {
		t.Errorf("shield = %d, want 0", u.Shield())
	}
	if u.HP() != 8 {
		t.Errorf("hp = %d, want 8", u.HP())
	}
}

func TestApplyEndPhaseDecaysControlStatuses(t *testing.T) {
	u := newUnit("U", Stats{MaxHP: 10})
	for _, k := range []StatusKind{Paralysis, Panic, Freeze, Sleep} {
		u.Statuses().Add(k, 2)
	}
	if dot := ApplyEndPhase(u); dot != 0 {
		t.Errorf("dot = %d, want 0", dot)
	}
	for _, k := range []StatusKind{Paralysis, Panic, Freeze, Sleep} {
		if got := u.Statuses().Stacks(k); got != 1 {
			t.Errorf("%s = %d, want 1", k, got)
		}
	}
	ApplyEndPhase(u)
	if BlocksAction(u) {
		t.Errorf("control statuses should be gone: %v", u.Statuses().Snapshot())
	}
	if u.HP() != 10 {
		t.Errorf("hp = %d, want 10", u.HP())
	}
}

func TestApplyEndPhaseNeverBelowZero(t *testing.T) {
	u := newUnit("U", Stats{MaxHP: 10})
	u.SetHP(3)
	u.Statuses().Add(Bleed, 50)
	ApplyEndPhase(u)
	if u.HP() != 0 {
		t.Errorf("hp = %d, want 0", u.HP())
	}
}
