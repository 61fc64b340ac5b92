package game

import (
	"context"
	"errors"
	"time"

	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
	"go.uber.org/zap"
)

// FavouriteChance is the probability the autopilot sticks to a favourite
const FavouriteChance = 0.60

// ErrNoGame is returned when the autopilot has no game to play
var ErrNoGame = errors.New("no active game")

// DecisionEngine picks the player's strategy for autopiloted games
type DecisionEngine struct {
	rng        interfaces.RandomSource
	favourites []types.StrategyID
}

// NewDecisionEngine creates a new decision engine. Invalid favourites are dropped.
func NewDecisionEngine(rng interfaces.RandomSource, favourites ...types.StrategyID) *DecisionEngine {
	de := &DecisionEngine{rng: rng}
	for _, id := range favourites {
		if id.Valid() {
			de.favourites = append(de.favourites, id)
		}
	}
	return de
}

// ChooseStrategy picks a favourite 60% of the time, otherwise any strategy
func (de *DecisionEngine) ChooseStrategy() types.StrategyID {
	if len(de.favourites) > 0 && de.rng.Float64() < FavouriteChance {
		return pickStrategy(de.rng, de.favourites)
	}
	return pickStrategy(de.rng, types.StrategyIDs)
}

// AutoPilot plays the human side of a game until it ends
type AutoPilot struct {
	gameManager   interfaces.GameManager
	engine        *DecisionEngine
	checkInterval time.Duration
	Logger        *zap.Logger
}

// NewAutoPilot creates a new autopilot. checkInterval is how long to wait
// before retrying a selection the manager did not accept.
func NewAutoPilot(gameManager interfaces.GameManager, engine *DecisionEngine, checkInterval time.Duration) *AutoPilot {
	if checkInterval <= 0 {
		checkInterval = 10 * time.Millisecond
	}
	return &AutoPilot{
		gameManager:   gameManager,
		engine:        engine,
		checkInterval: checkInterval,
		Logger:        zap.NewNop(),
	}
}

// Play drives the current game to completion and returns the final state
func (ap *AutoPilot) Play(ctx context.Context) (types.GameState, error) {
	ticker := time.NewTicker(ap.checkInterval)
	defer ticker.Stop()

	for {
		state, ok := ap.gameManager.GetState()
		if !ok {
			return types.GameState{}, ErrNoGame
		}
		if state.IsGameOver {
			return state, nil
		}

		if state.Phase == types.PhaseAwaitingChoice {
			strategy := ap.engine.ChooseStrategy()
			result, err := ap.gameManager.ChooseStrategy(strategy)
			if err != nil {
				return state, err
			}
			if result.Accepted {
				ap.Logger.Debug("Autopilot played round",
					zap.Int("round", result.Record.Round),
					zap.String("strategy", string(strategy)))
				if result.State.IsGameOver || result.State.Phase == types.PhaseAwaitingChoice {
					continue
				}
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}
