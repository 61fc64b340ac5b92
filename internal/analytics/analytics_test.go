package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/decision-duel/internal/types"
)

var testNames = map[types.StrategyID]string{
	types.StrategyA1: "Steady Investment",
	types.StrategyA2: "Market Expansion",
	types.StrategyA3: "Tech Commercialization",
	types.StrategyA4: "Team Incentives",
	types.StrategyA5: "Brand Marketing",
}

func nameOf(id types.StrategyID) string { return testNames[id] }

func record(round int, player, ai types.StrategyID, before, after types.Stats, threatBefore, threatAfter int) types.RoundRecord {
	return types.RoundRecord{
		Round:          round,
		PlayerStrategy: player,
		AIStrategy:     ai,
		PlayerBefore:   before,
		PlayerAfter:    after,
		ThreatBefore:   threatBefore,
		ThreatAfter:    threatAfter,
	}
}

func stats(c, r, i, m int) types.Stats {
	return types.Stats{Capital: c, Reputation: r, Innovation: i, Morale: m}
}

// sampleGame is a five round game won by the player through innovation
func sampleGame() types.GameState {
	history := []types.RoundRecord{
		record(1, types.StrategyA2, types.StrategyA1, stats(100, 80, 80, 80), stats(70, 95, 105, 80), 1, 2),
		record(2, types.StrategyA2, types.StrategyA5, stats(70, 95, 105, 80), stats(40, 110, 130, 80), 2, 2),
		record(3, types.StrategyA3, types.StrategyA4, stats(40, 110, 130, 80), stats(55, 110, 150, 80), 2, 2),
		record(4, types.StrategyA2, types.StrategyA1, stats(55, 110, 150, 80), stats(5, 125, 175, 80), 2, 2),
		record(5, types.StrategyA2, types.StrategyA2, stats(5, 125, 175, 80), stats(0, 140, 200, 80), 2, 2),
	}
	return types.GameState{
		Round:      5,
		MaxRounds:  5,
		Player:     stats(0, 140, 200, 80),
		IsGameOver: true,
		Winner:     types.WinnerPlayer,
		History:    history,
	}
}

func TestNormalizeHistory(t *testing.T) {
	history := []types.RoundRecord{
		{Round: 2, PlayerStrategy: types.StrategyA3},
		{Round: 1, PlayerStrategy: types.StrategyA1},
		{Round: 2, PlayerStrategy: types.StrategyA5},
		{Round: 3, PlayerStrategy: types.StrategyA2},
	}

	out := NormalizeHistory(history)
	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Round, out[1].Round, out[2].Round})
	assert.Equal(t, types.StrategyA3, out[1].PlayerStrategy, "first record for a round wins")
	assert.Empty(t, NormalizeHistory(nil))
}

func TestComputeMetrics(t *testing.T) {
	state := sampleGame()
	m := ComputeMetrics(state.History, len(state.History))

	assert.InDelta(t, 0.0, m.Risk.Conservative, 1e-9)
	assert.InDelta(t, 0.8, m.Risk.Aggressive, 1e-9)
	assert.InDelta(t, 0.2, m.Risk.Balanced, 1e-9)

	assert.InDelta(t, 0.0, m.Timing.EarlyConservative, 1e-9)
	assert.InDelta(t, 0.2, m.Timing.MidAdaptive, 1e-9)
	assert.InDelta(t, 0.4, m.Timing.LateAggressive, 1e-9)

	assert.InDelta(t, 0.5, m.Adaptability.SwitchRate, 1e-9)
	assert.InDelta(t, 0.25, m.Adaptability.EffectiveSwitchRate, 1e-9)

	assert.InDelta(t, 0.4, m.Effectiveness.HighImpactRate, 1e-9)
	assert.InDelta(t, 0.8, m.Effectiveness.ConsistencyRate, 1e-9)

	// Empty input yields zero metrics
	assert.Equal(t, Metrics{}, ComputeMetrics(nil, 0))
}

func TestRiskPreferenceUsesThreat(t *testing.T) {
	data := []types.RoundRecord{
		{Round: 1, PlayerStrategy: types.StrategyA4, ThreatBefore: 4},
		{Round: 2, PlayerStrategy: types.StrategyA4, ThreatBefore: 3},
		{Round: 3, PlayerStrategy: types.StrategyA5, ThreatBefore: 1},
		{Round: 4, PlayerStrategy: types.StrategyA5, ThreatBefore: 2},
	}

	m := ComputeMetrics(data, 4)
	assert.InDelta(t, 0.25, m.Risk.Conservative, 1e-9)
	assert.InDelta(t, 0.25, m.Risk.Aggressive, 1e-9)
	assert.InDelta(t, 0.5, m.Risk.Balanced, 1e-9)
}

func TestDominantPatterns(t *testing.T) {
	state := sampleGame()
	m := ComputeMetrics(state.History, 5)
	patterns := DominantPatterns(state.History, m, 5)

	require.Len(t, patterns, 3)

	assert.Equal(t, types.PatternAggressive, patterns[0].Type)
	assert.Equal(t, 4, patterns[0].Frequency)
	assert.Equal(t, 80, patterns[0].FrequencyPercentage)
	assert.Equal(t, []int{1, 2, 4, 5}, patterns[0].Rounds)
	assert.InDelta(t, 54.85, patterns[0].Effectiveness, 1e-9)
	assert.NotEmpty(t, patterns[0].Description)
	assert.NotEmpty(t, patterns[0].Icon)

	assert.Equal(t, types.PatternOpportunistic, patterns[1].Type)
	assert.Equal(t, 4, patterns[1].Frequency)

	assert.Equal(t, types.PatternAnalytical, patterns[2].Type)
	assert.Equal(t, 1, patterns[2].Frequency)
	assert.Equal(t, 20, patterns[2].FrequencyPercentage)
	assert.Equal(t, []int{3}, patterns[2].Rounds)
	assert.InDelta(t, 62.25, patterns[2].Effectiveness, 1e-9)
}

func TestPatternFrequencyMatchesRounds(t *testing.T) {
	state := sampleGame()
	patterns := DominantPatterns(state.History, ComputeMetrics(state.History, 5), 5)

	for _, p := range patterns {
		members := map[types.StrategyID]bool{}
		switch p.Type {
		case types.PatternAggressive:
			members[types.StrategyA2] = true
		case types.PatternOpportunistic:
			members[types.StrategyA2] = true
			members[types.StrategyA5] = true
		case types.PatternAnalytical:
			members[types.StrategyA1] = true
			members[types.StrategyA3] = true
			members[types.StrategyA5] = true
		}

		expected := 0
		for _, r := range state.History {
			if members[r.PlayerStrategy] {
				expected++
			}
		}
		assert.Equal(t, expected, p.Frequency, p.Type)
		assert.Len(t, p.Rounds, p.Frequency, p.Type)
	}
}

func TestDominantPatternsFallback(t *testing.T) {
	// Duplicated entries inflate the round count so no candidate qualifies
	var history []types.RoundRecord
	for i := 0; i < 10; i++ {
		history = append(history, record(1, types.StrategyA5, types.StrategyA1, stats(100, 80, 80, 80), stats(80, 100, 80, 80), 2, 2))
	}

	data := NormalizeHistory(history)
	patterns := DominantPatterns(data, ComputeMetrics(data, len(history)), len(history))

	require.Len(t, patterns, 1)
	assert.Equal(t, types.PatternPublicRelations, patterns[0].Type)
	assert.Equal(t, 1, patterns[0].Frequency)
	assert.Equal(t, 10, patterns[0].FrequencyPercentage)
}

func TestPatternEffectiveness(t *testing.T) {
	// Test case 1: No rounds
	assert.Equal(t, 0.0, PatternEffectiveness(nil))

	// Test case 2: Losing rounds floor at 50
	losing := []types.RoundRecord{record(1, types.StrategyA2, types.StrategyA1, stats(100, 0, 0, 0), stats(50, 0, 0, 0), 3, 1)}
	assert.InDelta(t, 50.0, PatternEffectiveness(losing), 1e-9)

	// Test case 3: Capped at 100
	huge := []types.RoundRecord{record(1, types.StrategyA3, types.StrategyA1, stats(0, 0, 0, 0), stats(300, 0, 0, 0), 1, 1)}
	assert.InDelta(t, 100.0, PatternEffectiveness(huge), 1e-9)
}

func TestExplainAI(t *testing.T) {
	state := sampleGame()

	explanation := ExplainAI(state.History, nameOf)
	require.Len(t, explanation, 3)
	assert.Equal(t, "The AI preferred Steady Investment when responding to your moves", explanation[0])
	assert.Equal(t, "Your strategy kept the AI's threat assessment stable", explanation[1])
	assert.Equal(t, "The AI was highly adaptive, frequently changing strategy in response to you", explanation[2])

	// Empty history produces no sentences
	assert.Empty(t, ExplainAI(nil, nameOf))
}

func TestExplainAIBands(t *testing.T) {
	// One AI strategy throughout, threat rising every round, single round has no switch rate
	data := []types.RoundRecord{
		record(1, types.StrategyA1, types.StrategyA3, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 1, 2),
	}
	explanation := ExplainAI(data, nameOf)
	require.Len(t, explanation, 3)
	assert.Contains(t, explanation[0], "mainly answered your moves with Tech Commercialization")
	assert.Contains(t, explanation[1], "strongly threatened")
	assert.Contains(t, explanation[2], "relatively stable")

	// Threat swinging around zero
	data = []types.RoundRecord{
		record(1, types.StrategyA1, types.StrategyA1, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 1, 3),
		record(2, types.StrategyA1, types.StrategyA2, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 3, 1),
		record(3, types.StrategyA1, types.StrategyA3, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 1, 1),
	}
	explanation = ExplainAI(data, nameOf)
	assert.Contains(t, explanation[0], "fairly balanced")
	assert.Contains(t, explanation[1], "swinging widely")

	// Threat falling
	data = []types.RoundRecord{
		record(1, types.StrategyA1, types.StrategyA1, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 3, 2),
		record(2, types.StrategyA1, types.StrategyA1, stats(0, 0, 0, 0), stats(0, 0, 0, 0), 2, 1),
	}
	explanation = ExplainAI(data, nameOf)
	assert.Contains(t, explanation[1], "greatly reduced")
}

func TestAnalyzeOutcomePlayerWin(t *testing.T) {
	state := sampleGame()
	outcome := AnalyzeOutcome(state.History, state.Player, state.Winner, 5, nameOf)

	require.NotNil(t, outcome.TurningPoint)
	assert.Equal(t, 1, *outcome.TurningPoint)
	assert.Equal(t, []string{"Outstanding reputation building", "Outstanding innovation"}, outcome.PlayerStrengths)
	assert.Equal(t, []string{"Insufficient capital accumulation", "Team morale could be higher"}, outcome.PlayerWeaknesses)
	assert.Equal(t, []string{"Strategy concentration", "Precise timing", "Unbalanced resource allocation"}, outcome.KeyFactors)
	assert.Equal(t, "You outperformed the AI overall, winning through a clear advantage in reputation and innovation and strongly effective strategy execution", outcome.OutcomeReason)
	assert.Equal(t, "The AI preferred Steady Investment when responding to your moves", outcome.AIStrategy)
}

func TestAnalyzeOutcomeAIWinAndDraw(t *testing.T) {
	data := []types.RoundRecord{
		record(1, types.StrategyA1, types.StrategyA2, stats(100, 80, 80, 80), stats(100, 70, 70, 80), 2, 2),
		record(2, types.StrategyA4, types.StrategyA2, stats(100, 70, 70, 80), stats(100, 70, 70, 80), 2, 2),
		record(3, types.StrategyA5, types.StrategyA2, stats(100, 70, 70, 80), stats(100, 70, 70, 80), 2, 2),
	}
	final := stats(100, 70, 70, 80)

	// Test case 1: AI win names the weak attributes
	outcome := AnalyzeOutcome(data, final, types.WinnerAI, 3, nameOf)
	assert.Nil(t, outcome.TurningPoint)
	assert.Equal(t, "The AI executed better, mainly because of underdeveloped reputation and innovation and ineffective strategy execution", outcome.OutcomeReason)
	assert.Equal(t, "The AI mainly used Market Expansion, showing a clear strategic preference", outcome.AIStrategy)
	assert.Contains(t, outcome.KeyFactors, "Timing needs work")

	// Test case 2: Draw
	outcome = AnalyzeOutcome(data, final, types.WinnerDraw, 3, nameOf)
	assert.Equal(t, "Both sides were evenly matched and the game ended in balance", outcome.OutcomeReason)
}

func TestKeyFactorsFallback(t *testing.T) {
	// Three strategies, middling timing and balance, no high-threat rounds
	data := []types.RoundRecord{
		record(1, types.StrategyA1, types.StrategyA1, stats(100, 100, 100, 100), stats(110, 100, 100, 100), 2, 2),
		record(2, types.StrategyA3, types.StrategyA1, stats(110, 100, 100, 100), stats(110, 100, 100, 100), 2, 2),
		record(3, types.StrategyA5, types.StrategyA1, stats(110, 100, 100, 100), stats(110, 100, 100, 100), 2, 2),
	}

	outcome := AnalyzeOutcome(data, stats(150, 100, 100, 100), types.WinnerDraw, 3, nameOf)
	assert.Equal(t, []string{"Strategy choice", "Timing", "Resource allocation", "Risk control"}, outcome.KeyFactors)
}

func TestRecommend(t *testing.T) {
	// Test case 1: No patterns
	rec := Recommend(nil)
	assert.Empty(t, rec.Overall)
	assert.Empty(t, rec.Specific)

	// Test case 2: Dominant by frequency, not by position
	rec = Recommend([]types.StrategyPattern{
		{Type: types.PatternInnovative, Description: "Innovation-driven thinking", Frequency: 1},
		{Type: types.PatternConservative, Description: "Conservative, steady thinking", Frequency: 3},
	})
	assert.Contains(t, rec.Overall, "conservative, steady thinking")
	require.Len(t, rec.Specific, 1)
	assert.Equal(t, "When the threat level is low", rec.Specific[0].Situation)

	// Test case 3: Aggressive
	rec = Recommend([]types.StrategyPattern{{Type: types.PatternAggressive, Description: "Aggressive expansion thinking", Frequency: 2}})
	require.Len(t, rec.Specific, 1)
	assert.Equal(t, "When the threat level is high", rec.Specific[0].Situation)

	// Test case 4: Other types get no specific suggestion
	rec = Recommend([]types.StrategyPattern{{Type: types.PatternMotivational, Description: "Team motivation thinking", Frequency: 2}})
	assert.NotEmpty(t, rec.Overall)
	assert.Empty(t, rec.Specific)
}

func TestFinalize(t *testing.T) {
	// Setup
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	analyzer := NewAnalyzer(nameOf, func() time.Time { return now })
	analyzer.newID = func() string { return "game-1" }

	// Test case 1: Full game
	analysis := analyzer.Finalize(sampleGame())
	assert.Equal(t, "game-1", analysis.GameID)
	assert.Equal(t, 5, analysis.TotalRounds)
	assert.Equal(t, types.WinnerPlayer, analysis.Winner)
	assert.Equal(t, stats(0, 140, 200, 80), analysis.FinalPlayerStats)
	assert.Len(t, analysis.StrategyData, 5)
	assert.Len(t, analysis.StrategyPatterns, 3)
	assert.Len(t, analysis.AIExplanation, 3)
	assert.Equal(t, now, analysis.CreatedAt)
	assert.Contains(t, analysis.Recommendations.Overall, "aggressive expansion thinking")
	assert.Len(t, analysis.Recommendations.Specific, 1)

	// Test case 2: Empty history is well formed
	empty := analyzer.Finalize(types.GameState{})
	assert.Equal(t, 0, empty.TotalRounds)
	assert.NotNil(t, empty.StrategyPatterns)
	assert.Empty(t, empty.StrategyPatterns)
	assert.Empty(t, empty.AIExplanation)
	assert.Empty(t, empty.Recommendations.Overall)
	assert.Nil(t, empty.Outcome.TurningPoint)
	assert.Equal(t, "Both sides were evenly matched and the game ended in balance", empty.Outcome.OutcomeReason)
}

func TestFinalizeGeneratesIDs(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	first := analyzer.Finalize(sampleGame())
	second := analyzer.Finalize(sampleGame())
	assert.NotEmpty(t, first.GameID)
	assert.NotEqual(t, first.GameID, second.GameID)
}
