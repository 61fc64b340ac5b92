package game

import (
	"errors"
	"fmt"

	"github.com/user/decision-duel/internal/types"
)

var (
	// ErrUnknownStrategy is returned for ids that are not in the catalog
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNoStrategies is returned when an empty selection is resolved
	ErrNoStrategies = errors.New("no strategies selected")
)

// EffectResult is the outcome of applying a selection to a stat vector
type EffectResult struct {
	Stats            types.Stats
	RiskIncrease     int
	CombinationBonus string
	// Effects holds the per-attribute change actually applied after clamping
	Effects types.Stats
}

// addClamped adds delta to every attribute, never letting one drop below zero.
// It returns the new vector and the change that was actually applied.
func addClamped(s types.Stats, delta types.Stats) (types.Stats, types.Stats) {
	var applied types.Stats
	for _, attr := range types.Attributes {
		d := delta.Get(attr)
		if d == 0 {
			continue
		}
		old := s.Get(attr)
		next := old + d
		if next < 0 {
			next = 0
		}
		s = s.Set(attr, next)
		applied = applied.Set(attr, next-old)
	}
	return s, applied
}

func addStats(a, b types.Stats) types.Stats {
	return types.Stats{
		Capital:    a.Capital + b.Capital,
		Reputation: a.Reputation + b.Reputation,
		Innovation: a.Innovation + b.Innovation,
		Morale:     a.Morale + b.Morale,
	}
}

// matchCombination returns the first catalog combination whose members are all selected
func matchCombination(ids []types.StrategyID) (types.StrategyCombination, bool) {
	selected := make(map[types.StrategyID]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	for _, combo := range combinations {
		all := true
		for _, member := range combo.Strategies {
			if !selected[member] {
				all = false
				break
			}
		}
		if all {
			return combo, true
		}
	}
	return types.StrategyCombination{}, false
}

// ApplyStrategies resolves one or more strategies against a stat vector.
// The input vector is not modified.
func ApplyStrategies(stats types.Stats, ids []types.StrategyID) (EffectResult, error) {
	if len(ids) == 0 {
		return EffectResult{}, ErrNoStrategies
	}

	result := EffectResult{Stats: stats}

	for _, id := range ids {
		strategy, ok := LookupStrategy(id)
		if !ok {
			return EffectResult{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
		}

		var applied types.Stats
		result.Stats, applied = addClamped(result.Stats, strategy.Effects)
		result.Effects = addStats(result.Effects, applied)
		result.RiskIncrease += strategy.Risk
	}

	// Combination bonuses stack on top of the individual effects
	if combo, ok := matchCombination(ids); ok {
		var applied types.Stats
		result.Stats, applied = addClamped(result.Stats, combo.Effects)
		result.Effects = addStats(result.Effects, applied)
		result.RiskIncrease += CombinationRisk
		result.CombinationBonus = combo.Bonus
	}

	return result, nil
}
