package battle

// EnemyMove is the enemy's choice for one turn.
type EnemyMove int

const (
	EnemyAttack EnemyMove = iota
	EnemySkill
)

func (m EnemyMove) String() string {
	if m == EnemySkill {
		return "skill"
	}
	return "attack"
}

// EnemyPolicy is the fixed probability gate enemies use to pick between
// their skill and a basic attack.
type EnemyPolicy struct {
	SkillMPCost int // MP needed and spent by the skill
	SkillChance int // percent
}

// DefaultEnemyPolicy is a 40% skill chance at 5 MP.
var DefaultEnemyPolicy = EnemyPolicy{SkillMPCost: 5, SkillChance: 40}

// Choose draws exactly one value from rng and returns the enemy's move.
// The skill only fires when the enemy can pay for it.
func (p EnemyPolicy) Choose(enemy Resource, rng RNG) EnemyMove {
	roll := rng.Intn(100)
	if enemy.MP() >= p.SkillMPCost && roll < p.SkillChance {
		return EnemySkill
	}
	return EnemyAttack
}

// Raw returns the raw damage and type for move.
func (p EnemyPolicy) Raw(move EnemyMove, enemy Statted) (float64, DamageType) {
	st := enemy.Stats()
	if move == EnemySkill {
		return float64(max(1, st.Magic)), MagicDamage
	}
	return float64(max(1, st.Attack)), PhysicalDamage
}
