package battle

// BattleEvent is emitted by BattleInstance for the presentation layer.
type BattleEvent interface {
	EventType() string
}

// EventSink receives battle events in order. Implementations must not
// block the battle for long.
type EventSink interface {
	Emit(evt BattleEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(evt BattleEvent)

func (f EventSinkFunc) Emit(evt BattleEvent) { f(evt) }

type discardSink struct{}

func (discardSink) Emit(BattleEvent) {}

// BattlerSnapshot is a full snapshot of a combatant's state.
type BattlerSnapshot struct {
	Name     string         `json:"name"`
	Level    int            `json:"level"`
	HP       int            `json:"hp"`
	MaxHP    int            `json:"max_hp"`
	MP       int            `json:"mp"`
	MaxMP    int            `json:"max_mp"`
	Shield   int            `json:"shield"`
	Stats    Stats          `json:"stats"`
	Statuses map[string]int `json:"statuses,omitempty"`
}

func SnapshotBattler(c Combatant) BattlerSnapshot {
	return BattlerSnapshot{
		Name:     c.Name(),
		Level:    c.Level(),
		HP:       c.HP(),
		MaxHP:    c.MaxHP(),
		MP:       c.MP(),
		MaxMP:    c.MaxMP(),
		Shield:   c.Shield(),
		Stats:    c.Stats(),
		Statuses: c.Statuses().Named(),
	}
}

// --- Concrete event types ---

type EventBattleStart struct {
	BattleID string          `json:"battle_id"`
	Player   BattlerSnapshot `json:"player"`
	Enemy    BattlerSnapshot `json:"enemy"`
	Boss     bool            `json:"boss"`
}

func (EventBattleStart) EventType() string { return "battle_start" }

type EventTurnStart struct {
	Round       int  `json:"round"`
	PlayerFirst bool `json:"player_first"`
}

func (EventTurnStart) EventType() string { return "turn_start" }

type EventActionResult struct {
	Round     int             `json:"round"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	SpentTurn bool            `json:"spent_turn"`
	Logs      []string        `json:"logs"`
	Player    BattlerSnapshot `json:"player"`
	Enemy     BattlerSnapshot `json:"enemy"`
}

func (EventActionResult) EventType() string { return "action_result" }

type EventTurnEnd struct {
	Round     int             `json:"round"`
	PlayerDOT int             `json:"player_dot"`
	EnemyDOT  int             `json:"enemy_dot"`
	Player    BattlerSnapshot `json:"player"`
	Enemy     BattlerSnapshot `json:"enemy"`
}

func (EventTurnEnd) EventType() string { return "turn_end" }

type EventBattleEnd struct {
	Result Outcome `json:"result"`
	Rounds int     `json:"rounds"`
	Exp    int     `json:"exp"`
	Gold   int     `json:"gold"`
}

func (EventBattleEnd) EventType() string { return "battle_end" }

// EventBattleAborted ends a battle that stopped without an outcome:
// cancellation, an input error or too many prompts.
type EventBattleAborted struct {
	Rounds int    `json:"rounds"`
	Reason string `json:"reason"`
}

func (EventBattleAborted) EventType() string { return "battle_aborted" }
