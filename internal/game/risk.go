package game

import (
	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
)

const (
	// RiskThreshold is the accumulated risk above which penalties may fire
	RiskThreshold = 70

	// RiskTriggerChance is the per-round probability once above the threshold
	RiskTriggerChance = 0.30

	riskPenaltyMin  = 10
	riskPenaltySpan = 21
)

// RiskEngine rolls the random penalty attached to accumulated risk
type RiskEngine struct {
	rng interfaces.RandomSource
}

// NewRiskEngine creates a risk engine drawing from rng
func NewRiskEngine(rng interfaces.RandomSource) *RiskEngine {
	return &RiskEngine{rng: rng}
}

// Triggered reports whether a penalty fires this round.
// No draw is consumed while the level is at or below the threshold.
func (re *RiskEngine) Triggered(level int) bool {
	return level > RiskThreshold && re.rng.Float64() < RiskTriggerChance
}

// Evaluate checks the trigger and, when it fires, subtracts 10-30 points
// from one uniformly chosen attribute, clamping at zero.
func (re *RiskEngine) Evaluate(level int, stats types.Stats) (types.Stats, *types.RiskPenalty) {
	if !re.Triggered(level) {
		return stats, nil
	}

	attr := types.Attributes[pick(re.rng, len(types.Attributes))]
	amount := rollRange(re.rng, riskPenaltyMin, riskPenaltySpan)

	next := stats.Get(attr) - amount
	if next < 0 {
		next = 0
	}

	return stats.Set(attr, next), &types.RiskPenalty{
		Attribute: attr,
		Name:      attr.String(),
		Amount:    amount,
	}
}
