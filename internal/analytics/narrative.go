package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/user/decision-duel/internal/types"
)

// StrategyNamer resolves a strategy id to its display name
type StrategyNamer func(types.StrategyID) string

func aiUsage(data []types.RoundRecord) (map[types.StrategyID]int, []types.StrategyID) {
	counts := make(map[types.StrategyID]int)
	var order []types.StrategyID
	for _, r := range data {
		if r.AIStrategy == "" {
			continue
		}
		if _, ok := counts[r.AIStrategy]; !ok {
			order = append(order, r.AIStrategy)
		}
		counts[r.AIStrategy]++
	}
	return counts, order
}

func percentOf(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// ExplainAI describes how the opponent behaved in three sentences: its
// favourite strategy, how the threat level moved, and how often it switched.
func ExplainAI(data []types.RoundRecord, names StrategyNamer) []string {
	if len(data) == 0 {
		return []string{}
	}

	var out []string

	counts, order := aiUsage(data)
	if id, count, ok := mostUsed(counts, order); ok {
		name := names(id)
		switch usage := percentOf(count, len(data)); {
		case usage >= 60:
			out = append(out, fmt.Sprintf("The AI mainly answered your moves with %s, showing a clear strategic bias", name))
		case usage >= 40:
			out = append(out, fmt.Sprintf("The AI preferred %s when responding to your moves", name))
		default:
			out = append(out, fmt.Sprintf("The AI leaned slightly towards %s but kept its choices fairly balanced", name))
		}
	}

	n := float64(len(data))
	var sum float64
	for _, r := range data {
		sum += float64(r.ThreatDelta())
	}
	avg := sum / n
	var variance float64
	for _, r := range data {
		d := float64(r.ThreatDelta()) - avg
		variance += d * d
	}
	variance /= n

	switch {
	case avg > 0.8:
		out = append(out, "Your strategy made the AI feel strongly threatened and it turned defensive")
	case avg > 0.3:
		out = append(out, "Your strategy made the AI feel clearly threatened and it adjusted its response")
	case avg > -0.3:
		if variance > 1.0 {
			out = append(out, "Your strategy kept the AI on alert, with its threat assessment swinging widely")
		} else {
			out = append(out, "Your strategy kept the AI's threat assessment stable")
		}
	case avg > -0.8:
		out = append(out, "Your strategy let the AI relax, judging the threat to be under control")
	default:
		out = append(out, "Your strategy greatly reduced the AI's sense of threat and it became fairly relaxed")
	}

	switches := 0
	for i := 1; i < len(data); i++ {
		if data[i].AIStrategy != data[i-1].AIStrategy {
			switches++
		}
	}
	var switchRate float64
	if len(data) > 1 {
		switchRate = float64(switches) / float64(len(data)-1)
	}

	switch {
	case switchRate > 0.4:
		out = append(out, "The AI was highly adaptive, frequently changing strategy in response to you")
	case switchRate > 0.2:
		out = append(out, "The AI showed some adaptability, adjusting its strategy when needed")
	default:
		out = append(out, "The AI kept a relatively stable strategy and a consistent response style")
	}

	return out
}

type statThreshold struct {
	attr       types.Attribute
	first      int
	second     int
	firstText  string
	secondText string
}

var strengthTable = []statThreshold{
	{types.Capital, 180, 150, "Strong capital accumulation", "Good capital accumulation"},
	{types.Reputation, 120, 100, "Outstanding reputation building", "Good reputation building"},
	{types.Innovation, 120, 100, "Outstanding innovation", "Good innovation"},
	{types.Morale, 120, 100, "High team morale", "Good team morale"},
}

var weaknessTable = []statThreshold{
	{types.Capital, 100, 120, "Insufficient capital accumulation", "Capital accumulation needs improvement"},
	{types.Reputation, 80, 100, "Reputation building needs strengthening", "Reputation could be improved further"},
	{types.Innovation, 80, 100, "Insufficient innovation", "Innovation has room to grow"},
	{types.Morale, 80, 100, "Low team morale", "Team morale could be higher"},
}

// winThresholds and lossThresholds name the attributes a narrative credits or blames
var (
	winThresholds  = types.Stats{Capital: 180, Reputation: 120, Innovation: 120, Morale: 120}
	lossThresholds = types.Stats{Capital: 100, Reputation: 80, Innovation: 80, Morale: 80}
)

// AnalyzeOutcome explains the result of a finished game
func AnalyzeOutcome(data []types.RoundRecord, final types.Stats, winner types.Winner, totalRounds int, names StrategyNamer) types.OutcomeAnalysis {
	outcome := types.OutcomeAnalysis{
		KeyFactors:       []string{},
		PlayerStrengths:  []string{},
		PlayerWeaknesses: []string{},
	}

	maxSwing := 0
	for _, r := range data {
		swing := r.ThreatDelta()
		if swing < 0 {
			swing = -swing
		}
		if swing > maxSwing {
			maxSwing = swing
			round := r.Round
			outcome.TurningPoint = &round
		}
	}

	for _, t := range strengthTable {
		v := final.Get(t.attr)
		switch {
		case v >= t.first:
			outcome.PlayerStrengths = append(outcome.PlayerStrengths, t.firstText)
		case v >= t.second:
			outcome.PlayerStrengths = append(outcome.PlayerStrengths, t.secondText)
		}
	}
	for _, t := range weaknessTable {
		v := final.Get(t.attr)
		switch {
		case v < t.first:
			outcome.PlayerWeaknesses = append(outcome.PlayerWeaknesses, t.firstText)
		case v < t.second:
			outcome.PlayerWeaknesses = append(outcome.PlayerWeaknesses, t.secondText)
		}
	}

	outcome.KeyFactors = keyFactors(data, final, totalRounds)
	outcome.OutcomeReason = outcomeReason(data, final, winner, totalRounds)
	outcome.AIStrategy = describeAIStrategy(data, totalRounds, names)

	return outcome
}

func keyFactors(data []types.RoundRecord, final types.Stats, totalRounds int) []string {
	var factors []string

	_, order := strategyUsage(data)
	switch unique := len(order); {
	case unique >= 4:
		factors = append(factors, "Strategy diversity")
	case unique <= 2:
		factors = append(factors, "Strategy concentration")
	}

	if totalRounds > 0 {
		effective := 0
		for _, r := range data {
			if r.StatDelta() > 5 {
				effective++
			}
		}
		ratio := float64(effective) / float64(totalRounds)
		switch {
		case ratio > 0.6:
			factors = append(factors, "Precise timing")
		case ratio < 0.3:
			factors = append(factors, "Timing needs work")
		}
	}

	balance := math.Min(
		math.Min(float64(final.Capital)/200, float64(final.Reputation)/150),
		math.Min(float64(final.Innovation)/150, float64(final.Morale)/150),
	)
	switch {
	case balance > 0.8:
		factors = append(factors, "Balanced resource allocation")
	case balance < 0.5:
		factors = append(factors, "Unbalanced resource allocation")
	}

	highThreat, conservative := 0, 0
	for _, r := range data {
		if r.ThreatBefore <= 3 {
			continue
		}
		highThreat++
		if r.PlayerStrategy == types.StrategyA1 || r.PlayerStrategy == types.StrategyA4 {
			conservative++
		}
	}
	if highThreat > 0 {
		ratio := float64(conservative) / float64(highThreat)
		switch {
		case ratio > 0.7:
			factors = append(factors, "Excellent risk control")
		case ratio < 0.3:
			factors = append(factors, "Weak risk control")
		}
	}

	if len(factors) == 0 {
		factors = []string{"Strategy choice", "Timing", "Resource allocation", "Risk control"}
	}
	return factors
}

func averageStatDelta(data []types.RoundRecord, totalRounds int) float64 {
	if totalRounds <= 0 {
		return 0
	}
	sum := 0
	for _, r := range data {
		sum += r.StatDelta()
	}
	return float64(sum) / float64(totalRounds)
}

func attributesWhere(final, thresholds types.Stats, keep func(v, threshold int) bool) []string {
	var names []string
	for _, attr := range types.Attributes {
		if keep(final.Get(attr), thresholds.Get(attr)) {
			names = append(names, attr.String())
		}
	}
	return names
}

func outcomeReason(data []types.RoundRecord, final types.Stats, winner types.Winner, totalRounds int) string {
	avg := averageStatDelta(data, totalRounds)

	switch winner {
	case types.WinnerPlayer:
		var factors []string
		if top := attributesWhere(final, winThresholds, func(v, t int) bool { return v >= t }); len(top) >= 2 {
			factors = append(factors, "a clear advantage in "+strings.Join(top, " and "))
		}
		switch {
		case avg > 8:
			factors = append(factors, "strongly effective strategy execution")
		case avg > 4:
			factors = append(factors, "well executed strategies")
		}
		if len(factors) > 0 {
			return "You outperformed the AI overall, winning through " + strings.Join(factors, " and ")
		}
		return "You outperformed the AI overall, winning through a sound mix of strategies"

	case types.WinnerAI:
		var factors []string
		if weak := attributesWhere(final, lossThresholds, func(v, t int) bool { return v < t }); len(weak) >= 2 {
			factors = append(factors, "underdeveloped "+strings.Join(weak, " and "))
		}
		if avg < 2 {
			factors = append(factors, "ineffective strategy execution")
		}
		if len(factors) > 0 {
			return "The AI executed better, mainly because of " + strings.Join(factors, " and ")
		}
		return "The AI executed better and overtook you on some key indicators"
	}

	return "Both sides were evenly matched and the game ended in balance"
}

func describeAIStrategy(data []types.RoundRecord, totalRounds int, names StrategyNamer) string {
	counts, order := aiUsage(data)
	id, count, ok := mostUsed(counts, order)
	if !ok {
		return "The AI used an adaptive strategy, adjusting to your moves"
	}

	switch usage := percentOf(count, totalRounds); {
	case usage >= 60:
		return fmt.Sprintf("The AI mainly used %s, showing a clear strategic preference", names(id))
	case usage >= 40:
		return fmt.Sprintf("The AI preferred %s when responding to your moves", names(id))
	default:
		return "The AI's choices were fairly balanced with no obvious preference"
	}
}

// Recommend advises the player based on the pattern seen in the most rounds.
// Only conservative and aggressive play get a situational suggestion.
func Recommend(patterns []types.StrategyPattern) types.Recommendations {
	rec := types.Recommendations{Specific: []types.Suggestion{}}
	if len(patterns) == 0 {
		return rec
	}

	ranked := make([]types.StrategyPattern, len(patterns))
	copy(ranked, patterns)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Frequency > ranked[j].Frequency })
	dominant := ranked[0]

	rec.Overall = fmt.Sprintf("You mainly relied on %s. Try other strategy types in some situations for a better balance.",
		strings.ToLower(dominant.Description))

	switch dominant.Type {
	case types.PatternConservative:
		rec.Specific = append(rec.Specific, types.Suggestion{
			Situation:  "When the threat level is low",
			Suggestion: "Try more aggressive strategies to widen your lead quickly",
			Reasoning:  "Conservative play is stable, but a clear lead is the moment to accelerate",
		})
	case types.PatternAggressive:
		rec.Specific = append(rec.Specific, types.Suggestion{
			Situation:  "When the threat level is high",
			Suggestion: "Switch to conservative strategies to reduce risk",
			Reasoning:  "Aggressive play provokes a strong AI reaction, so know when to hold back",
		})
	}

	return rec
}
