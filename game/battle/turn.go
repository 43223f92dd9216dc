package battle

// TurnManager decides who acts first in a round.
type TurnManager interface {
	// PlayerFirst is asked at the start of every round, so speed changes
	// during the battle can flip the order.
	PlayerFirst(player, enemy Statted) bool
}

// DefaultTurnManager gives the first action to the faster side; ties go
// to the player.
type DefaultTurnManager struct{}

func (DefaultTurnManager) PlayerFirst(player, enemy Statted) bool {
	return player.Stats().Speed >= enemy.Stats().Speed
}

// EscapeChance is the escape success percentage:
// max(0, (casterSpeed - targetSpeed) * perSpeed).
func EscapeChance(casterSpeed, targetSpeed, perSpeed int) int {
	return max(0, (casterSpeed-targetSpeed)*perSpeed)
}

// RollEscape draws one integer in [1,100] and reports success.
func RollEscape(chance int, rng RNG) bool {
	return rng.Intn(100)+1 <= chance
}
