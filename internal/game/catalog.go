package game

import (
	"github.com/user/decision-duel/internal/types"
)

// CombinationRisk is the extra risk added when a combination fires
const CombinationRisk = 5

var strategies = []types.Strategy{
	{
		ID:          types.StrategyA1,
		Name:        "Steady Investment",
		Description: "Put money in low-risk products for a stable return",
		Effects:     types.Stats{Capital: 12, Reputation: 5},
		Risk:        5,
		Cost:        5,
		Icon:        "💰",
		Hotkey:      "1",
	},
	{
		ID:          types.StrategyA2,
		Name:        "Market Expansion",
		Description: "Open new markets: heavy investment, high return",
		Effects:     types.Stats{Capital: -30, Innovation: 25, Reputation: 15},
		Risk:        25,
		Cost:        30,
		Icon:        "📈",
		Hotkey:      "2",
	},
	{
		ID:          types.StrategyA3,
		Name:        "Tech Commercialization",
		Description: "Turn research results into revenue",
		Effects:     types.Stats{Capital: 15, Innovation: 20},
		Risk:        10,
		Cost:        0,
		Icon:        "💡",
		Hotkey:      "3",
	},
	{
		ID:          types.StrategyA4,
		Name:        "Team Incentives",
		Description: "Invest in staff benefits to lift morale",
		Effects:     types.Stats{Capital: -15, Morale: 30},
		Risk:        5,
		Cost:        15,
		Icon:        "👥",
		Hotkey:      "4",
	},
	{
		ID:          types.StrategyA5,
		Name:        "Brand Marketing",
		Description: "Promote the brand to grow sales",
		Effects:     types.Stats{Capital: -20, Reputation: 20},
		Risk:        15,
		Cost:        20,
		Icon:        "📢",
		Hotkey:      "5",
	},
}

var combinations = []types.StrategyCombination{
	{
		Strategies: []types.StrategyID{types.StrategyA1, types.StrategyA3},
		Effects:    types.Stats{Capital: 40, Innovation: 35, Reputation: 10},
		Bonus:      "Tech portfolio: steady returns and commercialization pay off together",
	},
	{
		Strategies: []types.StrategyID{types.StrategyA2, types.StrategyA5},
		Effects:    types.Stats{Capital: -40, Innovation: 20, Reputation: 35},
		Bonus:      "Expansion marketing: new markets and brand promotion reinforce each other",
	},
	{
		Strategies: []types.StrategyID{types.StrategyA3, types.StrategyA4},
		Effects:    types.Stats{Capital: 10, Innovation: 35, Morale: 35},
		Bonus:      "R&D team: innovation and team morale rise together",
	},
}

// Strategies returns the strategy catalog in hotkey order
func Strategies() []types.Strategy {
	out := make([]types.Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// Combinations returns the combination bonus table
func Combinations() []types.StrategyCombination {
	out := make([]types.StrategyCombination, len(combinations))
	copy(out, combinations)
	return out
}

// LookupStrategy finds a catalog entry by id
func LookupStrategy(id types.StrategyID) (types.Strategy, bool) {
	for _, s := range strategies {
		if s.ID == id {
			return s, true
		}
	}
	return types.Strategy{}, false
}

// ParseStrategy resolves an id ("A3") or a hotkey ("3") to a strategy id
func ParseStrategy(input string) (types.StrategyID, bool) {
	for _, s := range strategies {
		if string(s.ID) == input || s.Hotkey == input {
			return s.ID, true
		}
	}
	return "", false
}

// StrategyName returns the display name of a strategy, or the raw id if unknown
func StrategyName(id types.StrategyID) string {
	if s, ok := LookupStrategy(id); ok {
		return s.Name
	}
	return string(id)
}

// Ability is the weighted sum used for every win/loss comparison.
// The result is not rounded.
func Ability(s types.Stats) float64 {
	return 0.4*float64(s.Capital) +
		0.3*float64(s.Reputation) +
		0.2*float64(s.Innovation) +
		0.1*float64(s.Morale)
}

// ThreatLevel bands the player's ability into 1-5
func ThreatLevel(player types.Stats) int {
	level := int(Ability(player) / 40)
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}
