package types

import "time"

// PatternType classifies the player's decision style
type PatternType string

const (
	PatternConservative    PatternType = "conservative"
	PatternAggressive      PatternType = "aggressive"
	PatternInnovative      PatternType = "innovative"
	PatternMotivational    PatternType = "motivational"
	PatternPublicRelations PatternType = "public_relations"
	PatternAdaptive        PatternType = "adaptive"
	PatternAnalytical      PatternType = "analytical"
	PatternOpportunistic   PatternType = "opportunistic"
)

// StrategyPattern is a detected thinking pattern
type StrategyPattern struct {
	Type                PatternType `json:"type"`
	Description         string      `json:"description"`
	Icon                string      `json:"icon"`
	Frequency           int         `json:"frequency"`
	FrequencyPercentage int         `json:"frequency_percentage"`
	Rounds              []int       `json:"rounds"`
	Effectiveness       float64     `json:"effectiveness"`
}

// OutcomeAnalysis explains how the game was won or lost
type OutcomeAnalysis struct {
	KeyFactors       []string `json:"key_factors"`
	TurningPoint     *int     `json:"turning_point"`
	PlayerStrengths  []string `json:"player_strengths"`
	PlayerWeaknesses []string `json:"player_weaknesses"`
	AIStrategy       string   `json:"ai_strategy"`
	OutcomeReason    string   `json:"outcome_reason"`
}

// Suggestion is a situational recommendation
type Suggestion struct {
	Situation  string `json:"situation"`
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

// Recommendations holds the post-game advice
type Recommendations struct {
	Overall  string       `json:"overall"`
	Specific []Suggestion `json:"specific"`
}

// GameAnalysis is the immutable post-game report
type GameAnalysis struct {
	GameID           string            `json:"game_id"`
	TotalRounds      int               `json:"total_rounds"`
	Winner           Winner            `json:"winner"`
	FinalPlayerStats Stats             `json:"final_player_stats"`
	StrategyData     []RoundRecord     `json:"strategy_data"`
	StrategyPatterns []StrategyPattern `json:"strategy_patterns"`
	AIExplanation    []string          `json:"ai_decision_explanation"`
	Outcome          OutcomeAnalysis   `json:"game_outcome_analysis"`
	Recommendations  Recommendations   `json:"recommendations"`
	CreatedAt        time.Time         `json:"created_at"`
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	c := make([]T, len(s))
	copy(c, s)
	return c
}

// Clone returns a deep copy of the analysis
func (a GameAnalysis) Clone() GameAnalysis {
	c := a

	c.StrategyData = cloneSlice(a.StrategyData)
	for i, r := range c.StrategyData {
		if r.RiskPenalty != nil {
			penalty := *r.RiskPenalty
			c.StrategyData[i].RiskPenalty = &penalty
		}
	}

	c.StrategyPatterns = cloneSlice(a.StrategyPatterns)
	for i, p := range c.StrategyPatterns {
		c.StrategyPatterns[i].Rounds = cloneSlice(p.Rounds)
	}

	c.AIExplanation = cloneSlice(a.AIExplanation)
	c.Outcome.KeyFactors = cloneSlice(a.Outcome.KeyFactors)
	c.Outcome.PlayerStrengths = cloneSlice(a.Outcome.PlayerStrengths)
	c.Outcome.PlayerWeaknesses = cloneSlice(a.Outcome.PlayerWeaknesses)
	if a.Outcome.TurningPoint != nil {
		round := *a.Outcome.TurningPoint
		c.Outcome.TurningPoint = &round
	}
	c.Recommendations.Specific = cloneSlice(a.Recommendations.Specific)

	return c
}
