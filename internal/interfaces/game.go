package interfaces

import (
	"time"

	"github.com/user/decision-duel/internal/types"
)

// RandomSource yields uniform draws in [0, 1)
type RandomSource interface {
	Float64() float64
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// GameManager defines the interface for game operations
type GameManager interface {
	StartGame() types.GameState
	ChooseStrategy(strategyID types.StrategyID) (*types.TurnResult, error)
	GetState() (types.GameState, bool)
	GetAnalysis(gameID string) (types.GameAnalysis, bool)
	ResetGame()
	GetStrategies() []types.Strategy
}

// AnalysisStore keeps finished game analyses by id
type AnalysisStore interface {
	Put(analysis types.GameAnalysis) error
	Get(gameID string) (types.GameAnalysis, bool)
}
