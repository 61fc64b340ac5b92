package analytics

import (
	"sort"

	"github.com/user/decision-duel/internal/types"
)

// NormalizeHistory keeps the first record seen for each round number and
// returns the survivors ordered by round.
func NormalizeHistory(history []types.RoundRecord) []types.RoundRecord {
	seen := make(map[int]bool, len(history))
	out := make([]types.RoundRecord, 0, len(history))
	for _, r := range history {
		if seen[r.Round] {
			continue
		}
		seen[r.Round] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// RiskPreference is the share of rounds per risk bucket
type RiskPreference struct {
	Conservative float64
	Aggressive   float64
	Balanced     float64
}

// Timing is the share of rounds where the strategy suited the game phase
type Timing struct {
	EarlyConservative float64
	MidAdaptive       float64
	LateAggressive    float64
}

// Adaptability describes how often and how well the player switched strategy
type Adaptability struct {
	SwitchRate          float64
	EffectiveSwitchRate float64
}

// Effectiveness is the share of rounds that improved the player's stats
type Effectiveness struct {
	HighImpactRate  float64
	ConsistencyRate float64
}

// Metrics bundles the sub-analyses computed over one dataset
type Metrics struct {
	Risk          RiskPreference
	Timing        Timing
	Adaptability  Adaptability
	Effectiveness Effectiveness
}

// ComputeMetrics runs every sub-analysis. totalRounds is the game's history
// length and drives the phase buckets. An empty dataset yields zero metrics.
func ComputeMetrics(data []types.RoundRecord, totalRounds int) Metrics {
	if len(data) == 0 {
		return Metrics{}
	}
	return Metrics{
		Risk:          analyzeRisk(data),
		Timing:        analyzeTiming(data, totalRounds),
		Adaptability:  analyzeAdaptability(data),
		Effectiveness: analyzeEffectiveness(data),
	}
}

func analyzeRisk(data []types.RoundRecord) RiskPreference {
	var conservative, aggressive, balanced int
	for _, r := range data {
		switch {
		case r.PlayerStrategy == types.StrategyA1 || (r.PlayerStrategy == types.StrategyA4 && r.ThreatBefore > 3):
			conservative++
		case r.PlayerStrategy == types.StrategyA2 || (r.PlayerStrategy == types.StrategyA5 && r.ThreatBefore < 2):
			aggressive++
		default:
			balanced++
		}
	}

	n := float64(len(data))
	return RiskPreference{
		Conservative: float64(conservative) / n,
		Aggressive:   float64(aggressive) / n,
		Balanced:     float64(balanced) / n,
	}
}

func analyzeTiming(data []types.RoundRecord, totalRounds int) Timing {
	if totalRounds <= 0 {
		totalRounds = 1
	}

	var early, mid, late int
	for _, r := range data {
		phase := float64(r.Round) / float64(totalRounds)
		s := r.PlayerStrategy
		switch {
		case phase <= 0.3:
			if s == types.StrategyA1 || s == types.StrategyA4 {
				early++
			}
		case phase <= 0.7:
			if s == types.StrategyA3 || s == types.StrategyA5 {
				mid++
			}
		default:
			if s == types.StrategyA2 {
				late++
			}
		}
	}

	n := float64(len(data))
	return Timing{
		EarlyConservative: float64(early) / n,
		MidAdaptive:       float64(mid) / n,
		LateAggressive:    float64(late) / n,
	}
}

func analyzeAdaptability(data []types.RoundRecord) Adaptability {
	var switches, effective int
	for i := 1; i < len(data); i++ {
		cur := data[i]
		if cur.PlayerStrategy == data[i-1].PlayerStrategy {
			continue
		}
		switches++
		if cur.ThreatDelta() < 0 || cur.StatDelta() > 0 {
			effective++
		}
	}

	denom := len(data) - 1
	if denom < 1 {
		denom = 1
	}
	return Adaptability{
		SwitchRate:          float64(switches) / float64(denom),
		EffectiveSwitchRate: float64(effective) / float64(denom),
	}
}

func analyzeEffectiveness(data []types.RoundRecord) Effectiveness {
	var highImpact, consistent int
	for _, r := range data {
		delta := r.StatDelta()
		if delta > 10 {
			highImpact++
		}
		if delta > 0 {
			consistent++
		}
	}

	n := float64(len(data))
	return Effectiveness{
		HighImpactRate:  float64(highImpact) / n,
		ConsistencyRate: float64(consistent) / n,
	}
}

// strategyUsage counts player strategies and remembers first-seen order
func strategyUsage(data []types.RoundRecord) (map[types.StrategyID]int, []types.StrategyID) {
	counts := make(map[types.StrategyID]int)
	var order []types.StrategyID
	for _, r := range data {
		if _, ok := counts[r.PlayerStrategy]; !ok {
			order = append(order, r.PlayerStrategy)
		}
		counts[r.PlayerStrategy]++
	}
	return counts, order
}

// mostUsed returns the highest count; ties go to the first encountered
func mostUsed(counts map[types.StrategyID]int, order []types.StrategyID) (types.StrategyID, int, bool) {
	if len(order) == 0 {
		return "", 0, false
	}
	best := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return best, counts[best], true
}
