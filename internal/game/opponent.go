package game

import (
	"math"

	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
)

const (
	// RecentWindow is how many past rounds the heuristic policy looks at
	RecentWindow = 2

	// ExploreChance is the probability of a uniformly random pick
	ExploreChance = 0.30

	// CounterChance is the probability of picking from the counter table
	// once exploration did not fire
	CounterChance = 0.50
)

// openingStrategies is the conservative set used before any history exists
var openingStrategies = []types.StrategyID{types.StrategyA1, types.StrategyA3, types.StrategyA4}

// counterTable maps the player's most frequent recent strategy to the AI's candidates
var counterTable = map[types.StrategyID][]types.StrategyID{
	types.StrategyA1: {types.StrategyA2, types.StrategyA3, types.StrategyA4},
	types.StrategyA2: {types.StrategyA4, types.StrategyA5, types.StrategyA1},
	types.StrategyA3: {types.StrategyA5, types.StrategyA1, types.StrategyA2},
	types.StrategyA4: {types.StrategyA3, types.StrategyA5, types.StrategyA1},
	types.StrategyA5: {types.StrategyA1, types.StrategyA2, types.StrategyA3},
}

// OpponentPolicy chooses the AI strategy for the next round
type OpponentPolicy interface {
	Name() string
	Choose(history []types.RoundRecord, player, ai types.Stats) types.StrategyID
}

// HeuristicPolicy blends random exploration with a counter-strategy table
type HeuristicPolicy struct {
	rng interfaces.RandomSource
}

// NewHeuristicPolicy creates the production opponent policy
func NewHeuristicPolicy(rng interfaces.RandomSource) *HeuristicPolicy {
	return &HeuristicPolicy{rng: rng}
}

// Name identifies the policy in logs
func (hp *HeuristicPolicy) Name() string { return "heuristic" }

// Choose picks a strategy from the round history only; it never sees the
// player's pending selection.
func (hp *HeuristicPolicy) Choose(history []types.RoundRecord, _, _ types.Stats) types.StrategyID {
	if hp.rng.Float64() < ExploreChance {
		return pickStrategy(hp.rng, types.StrategyIDs)
	}

	if len(history) == 0 {
		return pickStrategy(hp.rng, openingStrategies)
	}

	favourite, ok := MostFrequentRecent(history, RecentWindow)
	if !ok {
		return pickStrategy(hp.rng, types.StrategyIDs)
	}

	candidates, ok := counterTable[favourite]
	if !ok {
		candidates = []types.StrategyID{types.StrategyA1}
	}

	if hp.rng.Float64() < CounterChance {
		return pickStrategy(hp.rng, candidates)
	}
	return pickStrategy(hp.rng, types.StrategyIDs)
}

// MostFrequentRecent returns the player's most used strategy over the last
// window rounds. Ties go to the strategy encountered first.
func MostFrequentRecent(history []types.RoundRecord, window int) (types.StrategyID, bool) {
	if len(history) == 0 || window <= 0 {
		return "", false
	}

	start := len(history) - window
	if start < 0 {
		start = 0
	}

	counts := make(map[types.StrategyID]int)
	var order []types.StrategyID
	for _, r := range history[start:] {
		if _, seen := counts[r.PlayerStrategy]; !seen {
			order = append(order, r.PlayerStrategy)
		}
		counts[r.PlayerStrategy]++
	}

	best := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return best, true
}

// MinimaxPolicy is a fixed-depth search over the player's vector.
// It does not model the AI's own moves.
type MinimaxPolicy struct {
	Depth      int
	Maximizing bool
}

// NewMinimaxPolicy creates the alternate search-based policy
func NewMinimaxPolicy(depth int, maximizing bool) *MinimaxPolicy {
	return &MinimaxPolicy{Depth: depth, Maximizing: maximizing}
}

// Name identifies the policy in logs
func (mp *MinimaxPolicy) Name() string { return "minimax" }

// Choose runs the search; a depth of zero yields the first catalog strategy
func (mp *MinimaxPolicy) Choose(_ []types.RoundRecord, player, ai types.Stats) types.StrategyID {
	id, _ := Minimax(player, ai, mp.Depth, mp.Maximizing)
	if id == "" {
		return types.StrategyIDs[0]
	}
	return id
}

// Minimax evaluates ability(ai) - ability(player) at depth zero. Each ply
// applies every strategy to the player's vector and keeps the best score for
// the side to move; ties keep the earlier strategy.
func Minimax(player, ai types.Stats, depth int, maximizing bool) (types.StrategyID, float64) {
	if depth <= 0 {
		return "", Ability(ai) - Ability(player)
	}

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	bestID := types.StrategyIDs[0]

	for _, id := range types.StrategyIDs {
		res, err := ApplyStrategies(player, []types.StrategyID{id})
		if err != nil {
			continue
		}
		_, score := Minimax(res.Stats, ai, depth-1, !maximizing)

		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			bestID = id
		}
	}

	return bestID, best
}
