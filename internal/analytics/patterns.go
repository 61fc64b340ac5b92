package analytics

import (
	"math"
	"sort"

	"github.com/user/decision-duel/internal/types"
)

const (
	// maxPatterns is how many patterns a report keeps
	maxPatterns = 3

	// minPatternScore filters out weak candidates
	minPatternScore = 0.1
)

type patternInfo struct {
	Description string
	Icon        string
}

var patternCatalog = map[types.PatternType]patternInfo{
	types.PatternConservative:    {"Conservative, steady thinking", "🛡️"},
	types.PatternAggressive:      {"Aggressive expansion thinking", "⚔️"},
	types.PatternInnovative:      {"Innovation-driven thinking", "💡"},
	types.PatternMotivational:    {"Team motivation thinking", "👥"},
	types.PatternPublicRelations: {"Market and PR thinking", "📢"},
	types.PatternAdaptive:        {"Flexible, adaptive thinking", "🔄"},
	types.PatternAnalytical:      {"Rational, analytical thinking", "📊"},
	types.PatternOpportunistic:   {"Opportunistic thinking", "🎯"},
}

// singleStrategyPatterns maps a strategy to the pattern used when no
// candidate survives scoring
var singleStrategyPatterns = map[types.StrategyID]types.PatternType{
	types.StrategyA1: types.PatternConservative,
	types.StrategyA2: types.PatternAggressive,
	types.StrategyA3: types.PatternInnovative,
	types.StrategyA4: types.PatternMotivational,
	types.StrategyA5: types.PatternPublicRelations,
}

type candidate struct {
	Type       types.PatternType
	Strategies []types.StrategyID
	Score      float64
}

// DominantPatterns scores every pattern type and keeps the top three.
// Scores blend the sub-analyses with the raw usage share of the pattern's
// strategies.
func DominantPatterns(data []types.RoundRecord, metrics Metrics, totalRounds int) []types.StrategyPattern {
	if len(data) == 0 || totalRounds <= 0 {
		return []types.StrategyPattern{}
	}

	candidates := scoreCandidates(data, metrics, totalRounds)

	patterns := make([]types.StrategyPattern, 0, maxPatterns)
	for _, c := range candidates {
		if len(patterns) == maxPatterns {
			break
		}
		patterns = append(patterns, buildPattern(c, data, totalRounds))
	}
	return patterns
}

func scoreCandidates(data []types.RoundRecord, m Metrics, totalRounds int) []candidate {
	usage, order := strategyUsage(data)
	total := float64(totalRounds)
	share := func(ids ...types.StrategyID) float64 {
		n := 0
		for _, id := range ids {
			n += usage[id]
		}
		return float64(n) / total
	}

	var cs []candidate

	conservative := share(types.StrategyA1, types.StrategyA4)
	if m.Risk.Conservative > 0.3 || conservative > 0.3 {
		cs = append(cs, candidate{
			Type:       types.PatternConservative,
			Strategies: []types.StrategyID{types.StrategyA1, types.StrategyA4},
			Score:      m.Risk.Conservative + m.Timing.EarlyConservative*0.5 + conservative*0.4,
		})
	}

	aggressive := share(types.StrategyA2)
	if m.Risk.Aggressive > 0.2 || aggressive > 0.2 {
		cs = append(cs, candidate{
			Type:       types.PatternAggressive,
			Strategies: []types.StrategyID{types.StrategyA2},
			Score:      m.Risk.Aggressive + m.Timing.LateAggressive*0.3 + aggressive*0.5,
		})
	}

	if focus := share(types.StrategyA3); focus > 0.15 {
		cs = append(cs, candidate{
			Type:       types.PatternInnovative,
			Strategies: []types.StrategyID{types.StrategyA3},
			Score:      focus + m.Effectiveness.HighImpactRate*0.3 + focus*0.4,
		})
	}

	if focus := share(types.StrategyA4); focus > 0.15 {
		cs = append(cs, candidate{
			Type:       types.PatternMotivational,
			Strategies: []types.StrategyID{types.StrategyA4},
			Score:      focus + focus*0.4,
		})
	}

	if focus := share(types.StrategyA5); focus > 0.15 {
		cs = append(cs, candidate{
			Type:       types.PatternPublicRelations,
			Strategies: []types.StrategyID{types.StrategyA5},
			Score:      focus + focus*0.4,
		})
	}

	unique := len(order)
	a := m.Adaptability
	if a.SwitchRate > 0.3 && a.EffectiveSwitchRate > 0.5 && unique >= 3 {
		cs = append(cs, candidate{
			Type:       types.PatternAdaptive,
			Strategies: types.StrategyIDs,
			Score:      a.SwitchRate*0.7 + a.EffectiveSwitchRate*0.3 + float64(unique)/5*0.3,
		})
	}

	if m.Effectiveness.ConsistencyRate > 0.6 {
		ids := []types.StrategyID{types.StrategyA1, types.StrategyA3, types.StrategyA5}
		cs = append(cs, candidate{
			Type:       types.PatternAnalytical,
			Strategies: ids,
			Score:      m.Effectiveness.ConsistencyRate + m.Timing.MidAdaptive*0.4 + share(ids...)*0.3,
		})
	}

	if m.Effectiveness.HighImpactRate > 0.2 {
		ids := []types.StrategyID{types.StrategyA2, types.StrategyA5}
		cs = append(cs, candidate{
			Type:       types.PatternOpportunistic,
			Strategies: ids,
			Score:      m.Effectiveness.HighImpactRate + m.Risk.Aggressive*0.5 + share(ids...)*0.3,
		})
	}

	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })

	kept := cs[:0]
	for _, c := range cs {
		if c.Score > minPatternScore {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		if id, count, ok := mostUsed(usage, order); ok {
			if pt, ok := singleStrategyPatterns[id]; ok {
				kept = append(kept, candidate{
					Type:       pt,
					Strategies: []types.StrategyID{id},
					Score:      float64(count) / total,
				})
			}
		}
	}

	return kept
}

func buildPattern(c candidate, data []types.RoundRecord, totalRounds int) types.StrategyPattern {
	members := make(map[types.StrategyID]bool, len(c.Strategies))
	for _, id := range c.Strategies {
		members[id] = true
	}

	var related []types.RoundRecord
	rounds := []int{}
	seen := make(map[int]bool)
	for _, r := range data {
		if !members[r.PlayerStrategy] {
			continue
		}
		related = append(related, r)
		rounds = append(rounds, r.Round)
		seen[r.Round] = true
	}

	frequency := len(seen)
	info := patternCatalog[c.Type]
	return types.StrategyPattern{
		Type:                c.Type,
		Description:         info.Description,
		Icon:                info.Icon,
		Frequency:           frequency,
		FrequencyPercentage: int(math.Round(float64(frequency) / float64(totalRounds) * 100)),
		Rounds:              rounds,
		Effectiveness:       PatternEffectiveness(related),
	}
}

// PatternEffectiveness scores a set of rounds in [0,100]. Each round scores
// max(0, 0.7*statDelta + 0.3*threatDelta); the mean is halved and shifted by 50.
func PatternEffectiveness(rounds []types.RoundRecord) float64 {
	if len(rounds) == 0 {
		return 0
	}

	var total float64
	for _, r := range rounds {
		total += math.Max(0, float64(r.StatDelta())*0.7+float64(r.ThreatDelta())*0.3)
	}

	score := total/float64(len(rounds))*0.5 + 50
	return math.Min(100, math.Max(0, score))
}
