package battle

import (
	"github.com/Sephirode/realDesia/resource"
)

// StatusKind re-exports the table enumeration for combat code.
type StatusKind = resource.StatusKind

const (
	Bleed     = resource.StatusBleed
	Poison    = resource.StatusPoison
	Burn      = resource.StatusBurn
	Paralysis = resource.StatusParalysis
	Panic     = resource.StatusPanic
	Freeze    = resource.StatusFreeze
	Sleep     = resource.StatusSleep
)

// blockingOrder is the order in which action-blocking statuses are
// reported, highest priority first.
var blockingOrder = []StatusKind{Sleep, Freeze, Paralysis, Panic}

// StatusLedger holds positive stack counts per status kind. A kind with
// zero stacks has no entry. The zero value is ready to use.
type StatusLedger struct {
	stacks map[StatusKind]int
}

// Stacks returns the current stack count of k.
func (l *StatusLedger) Stacks(k StatusKind) int { return l.stacks[k] }

// Has reports whether k has at least one stack.
func (l *StatusLedger) Has(k StatusKind) bool { return l.stacks[k] > 0 }

// Add increases k by n stacks; n <= 0 is ignored.
func (l *StatusLedger) Add(k StatusKind, n int) {
	if n <= 0 {
		return
	}
	if l.stacks == nil {
		l.stacks = make(map[StatusKind]int)
	}
	l.stacks[k] += n
}

// Reduce removes up to n stacks of k, deleting the entry at zero.
func (l *StatusLedger) Reduce(k StatusKind, n int) {
	if n <= 0 {
		return
	}
	cur, ok := l.stacks[k]
	if !ok {
		return
	}
	if cur-n <= 0 {
		delete(l.stacks, k)
		return
	}
	l.stacks[k] = cur - n
}

// Clear removes every stack of k.
func (l *StatusLedger) Clear(k StatusKind) { delete(l.stacks, k) }

// ClearAll removes every status.
func (l *StatusLedger) ClearAll() { clear(l.stacks) }

// Snapshot returns a copy of the current stacks.
func (l *StatusLedger) Snapshot() map[StatusKind]int {
	out := make(map[StatusKind]int, len(l.stacks))
	for k, v := range l.stacks {
		out[k] = v
	}
	return out
}

// Named returns the stacks keyed by status name, for display.
func (l *StatusLedger) Named() map[string]int {
	out := make(map[string]int, len(l.stacks))
	for k, v := range l.stacks {
		out[k.String()] = v
	}
	return out
}

// OnHitTaken applies hit reactions: Sleep is cleared and Burn loses
// hitCount stacks.
func OnHitTaken(target StatusBearer, hitCount int) {
	if target == nil || hitCount < 1 {
		return
	}
	st := target.Statuses()
	st.Clear(Sleep)
	st.Reduce(Burn, hitCount)
}

// BlocksAction reports whether unit is prevented from acting this turn.
func BlocksAction(unit StatusBearer) bool {
	_, blocked := BlockReason(unit)
	return blocked
}

// BlockReason returns the highest-priority blocking status of unit.
func BlockReason(unit StatusBearer) (StatusKind, bool) {
	if unit == nil {
		return 0, false
	}
	st := unit.Statuses()
	for _, k := range blockingOrder {
		if st.Has(k) {
			return k, true
		}
	}
	return 0, false
}

// ApplyEndPhase runs the end-of-round tick on unit and returns the DOT
// dealt. DOT is one point per Bleed, Poison and Burn stack; it drains the
// shield first and then HP without mitigation. Poison and the blocking
// statuses lose one stack; Bleed and Burn are untouched.
func ApplyEndPhase(unit Combatant) int {
	if unit == nil {
		return 0
	}
	st := unit.Statuses()
	dot := st.Stacks(Bleed) + st.Stacks(Poison) + st.Stacks(Burn)
	if dot > 0 {
		if rest := unit.AbsorbDamage(float64(dot)); rest > 0 {
			unit.SetHP(float64(unit.HP() - rest))
		}
	}
	st.Reduce(Poison, 1)
	for _, k := range blockingOrder {
		st.Reduce(k, 1)
	}
	return dot
}
