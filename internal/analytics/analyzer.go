package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/decision-duel/internal/types"
	"go.uber.org/zap"
)

// Analyzer turns a finished game into a GameAnalysis
type Analyzer struct {
	names  StrategyNamer
	now    func() time.Time
	newID  func() string
	Logger *zap.Logger
}

// NewAnalyzer creates an analyzer. names renders strategy ids in prose and
// now stamps each report.
func NewAnalyzer(names StrategyNamer, now func() time.Time) *Analyzer {
	if names == nil {
		names = func(id types.StrategyID) string { return string(id) }
	}
	if now == nil {
		now = time.Now
	}
	return &Analyzer{
		names:  names,
		now:    now,
		newID:  uuid.NewString,
		Logger: zap.NewNop(),
	}
}

// Finalize analyzes the game's full history. An empty history produces a
// well-formed report with zero rounds and no patterns.
func (a *Analyzer) Finalize(state types.GameState) types.GameAnalysis {
	data := NormalizeHistory(state.History)
	totalRounds := len(state.History)

	if dropped := len(state.History) - len(data); dropped > 0 {
		a.Logger.Warn("Dropped duplicate round records", zap.Int("count", dropped))
	}

	metrics := ComputeMetrics(data, totalRounds)
	patterns := DominantPatterns(data, metrics, totalRounds)

	analysis := types.GameAnalysis{
		GameID:           a.newID(),
		TotalRounds:      totalRounds,
		Winner:           state.Winner,
		FinalPlayerStats: state.Player,
		StrategyData:     data,
		StrategyPatterns: patterns,
		AIExplanation:    ExplainAI(data, a.names),
		Outcome:          AnalyzeOutcome(data, state.Player, state.Winner, totalRounds, a.names),
		Recommendations:  Recommend(patterns),
		CreatedAt:        a.now(),
	}

	a.Logger.Info("Game analysis created",
		zap.String("game_id", analysis.GameID),
		zap.Int("total_rounds", totalRounds),
		zap.Int("patterns", len(patterns)))

	return analysis
}
