package battle

// Rewards is what the player earns for a win.
type Rewards struct {
	Exp  int `json:"exp"`
	Gold int `json:"gold"`
}

// CalculateRewards returns 20+10*level exp and 20+5*level gold, doubled
// for bosses.
func CalculateRewards(enemyLevel int, boss bool) Rewards {
	r := Rewards{Exp: 20 + enemyLevel*10, Gold: 20 + enemyLevel*5}
	if boss {
		r.Exp *= 2
		r.Gold *= 2
	}
	return r
}
