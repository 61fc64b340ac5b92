package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/types"
)

// scriptedGame replays a full five-round game:
// initial stats, then per round the AI policy draws and, once risk
// exceeds the threshold, the risk draws.
var scriptedGame = []float64{
	0.34, 0.5, 0.5, 0.5, // initial stats {100, 80, 80, 80}
	0.9, 0.0, // round 1: opening pick A1
	0.9, 0.1, 0.5, // round 2: counter to A2 -> A5
	0.2, 0.7, // round 3: explore -> A4
	0.9, 0.6, 0.0, // round 4: full set -> A1
	0.1, 0.0, 0.5, // round 4 risk: capital -20
	0.25, 0.3, // round 5: explore -> A2
	0.5, // round 5 risk: no trigger
}

func TestStartGame(t *testing.T) {
	// Setup
	rng := newScriptedSource(0.34, 0.5, 0.5, 0.5)
	gameManager := NewGameManager(instantConfig(), WithRandomSource(rng), WithClock(newFakeClock()))

	// Test case 1: No game before start
	_, ok := gameManager.GetState()
	assert.False(t, ok)

	// Test case 2: Both sides start from the same stats
	state := gameManager.StartGame()
	expected := types.Stats{Capital: 100, Reputation: 80, Innovation: 80, Morale: 80}
	assert.Equal(t, expected, state.Player)
	assert.Equal(t, expected, state.AI.Stats)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 5, state.MaxRounds)
	assert.Equal(t, 1, state.AI.ThreatLevel)
	assert.Equal(t, 0, state.RiskLevel)
	assert.Equal(t, types.PhaseAwaitingChoice, state.Phase)
	assert.Empty(t, state.History)

	// Test case 3: Snapshot is detached from the manager
	state.Player.Capital = 1
	current, ok := gameManager.GetState()
	assert.True(t, ok)
	assert.Equal(t, 100, current.Player.Capital)
}

func TestScriptedGame(t *testing.T) {
	// Setup
	rng := newScriptedSource(scriptedGame...)
	gameManager := NewGameManager(instantConfig(), WithRandomSource(rng), WithClock(newFakeClock()))
	gameManager.StartGame()

	moves := []types.StrategyID{types.StrategyA2, types.StrategyA2, types.StrategyA3, types.StrategyA2, types.StrategyA2}
	expectedAI := []types.StrategyID{types.StrategyA1, types.StrategyA5, types.StrategyA4, types.StrategyA1, types.StrategyA2}

	var last *types.TurnResult
	for i, move := range moves {
		result, err := gameManager.ChooseStrategy(move)
		require.NoError(t, err)
		require.True(t, result.Accepted, "round %d", i+1)
		require.NotNil(t, result.Record)
		assert.Equal(t, i+1, result.Record.Round)
		assert.Equal(t, expectedAI[i], result.Record.AIStrategy, "round %d", i+1)
		assert.NotEmpty(t, result.Log)
		last = result
	}

	state := last.State
	assert.True(t, state.IsGameOver)
	assert.Equal(t, types.PhaseGameOver, state.Phase)
	assert.Equal(t, types.WinnerPlayer, state.Winner)
	assert.Equal(t, "One of your attributes reached the excellent level (>=180): early victory!", state.Reason)
	assert.Equal(t, types.Stats{Capital: 0, Reputation: 140, Innovation: 200, Morale: 80}, state.Player)
	assert.Equal(t, types.Stats{Capital: 59, Reputation: 125, Innovation: 105, Morale: 110}, state.AI.Stats)
	assert.Equal(t, 110, state.RiskLevel)
	assert.Equal(t, 2, state.AI.ThreatLevel)
	assert.Len(t, state.History, 5)
	assert.Equal(t, len(scriptedGame), rng.consumed())

	// Round 4 triggered the risk penalty
	r4 := state.History[3]
	assert.True(t, r4.RiskTriggered)
	require.NotNil(t, r4.RiskPenalty)
	assert.Equal(t, "capital", r4.RiskPenalty.Name)
	assert.Equal(t, 20, r4.RiskPenalty.Amount)
	assert.Equal(t, types.Stats{Capital: 5, Reputation: 125, Innovation: 175, Morale: 80}, r4.PlayerAfter)

	// Round 5 capital was clamped
	r5 := state.History[4]
	assert.Equal(t, types.Stats{Capital: -5, Reputation: 15, Innovation: 25}, r5.PlayerEffects)
	assert.False(t, r5.RiskTriggered)

	// Round 1 moved the threat level from 1 to 2
	assert.Equal(t, 1, state.History[0].ThreatBefore)
	assert.Equal(t, 2, state.History[0].ThreatAfter)

	// Analysis was finalized and stored
	require.NotNil(t, last.Analysis)
	assert.NotEmpty(t, state.AnalysisID)
	analysis, ok := gameManager.GetAnalysis(state.AnalysisID)
	require.True(t, ok)
	assert.Equal(t, 5, analysis.TotalRounds)
	assert.Equal(t, types.WinnerPlayer, analysis.Winner)
	require.NotEmpty(t, analysis.StrategyPatterns)
	assert.Equal(t, types.PatternAggressive, analysis.StrategyPatterns[0].Type)

	// Test case: the returned analysis cannot change the stored one
	frequency := analysis.StrategyPatterns[0].Frequency
	last.Analysis.StrategyPatterns[0].Frequency = 999
	last.Analysis.AIExplanation[0] = "changed"
	analysis.StrategyPatterns[0].Frequency = 998
	stored, ok := gameManager.GetAnalysis(state.AnalysisID)
	require.True(t, ok)
	assert.Equal(t, frequency, stored.StrategyPatterns[0].Frequency)
	assert.NotEqual(t, "changed", stored.AIExplanation[0])

	// Test case: selections after the game ends are ignored
	result, err := gameManager.ChooseStrategy(types.StrategyA1)
	assert.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Len(t, result.State.History, 5)
}

func TestChooseStrategyUnknown(t *testing.T) {
	// Setup
	gameManager := NewGameManager(instantConfig(), WithRandomSource(NewSeededDiceRoller(1)))
	gameManager.StartGame()

	// Test case 1: Unknown id is rejected without touching the game
	result, err := gameManager.ChooseStrategy("A6")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	state, _ := gameManager.GetState()
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, types.PhaseAwaitingChoice, state.Phase)
	assert.Empty(t, state.History)
}

func TestChooseStrategyWithoutGame(t *testing.T) {
	gameManager := NewGameManager(instantConfig())

	result, err := gameManager.ChooseStrategy(types.StrategyA1)
	assert.NoError(t, err)
	assert.False(t, result.Accepted)
}

func TestSelectionCooldown(t *testing.T) {
	// Setup
	cfg := instantConfig()
	cfg.Game.SelectionCooldownMs = 500
	clock := newFakeClock()
	gameManager := NewGameManager(cfg, WithRandomSource(NewSeededDiceRoller(3)), WithClock(clock))
	gameManager.StartGame()

	// Test case 1: First selection is accepted
	result, err := gameManager.ChooseStrategy(types.StrategyA1)
	require.NoError(t, err)
	assert.True(t, result.Accepted)

	// Test case 2: Second selection inside the window is dropped
	clock.Advance(499 * time.Millisecond)
	result, err = gameManager.ChooseStrategy(types.StrategyA1)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Len(t, result.State.History, 1)

	// Test case 3: After the window selections are accepted again
	clock.Advance(time.Millisecond)
	result, err = gameManager.ChooseStrategy(types.StrategyA1)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Len(t, result.State.History, 2)
}

func TestInterRoundPause(t *testing.T) {
	// Setup
	cfg := instantConfig()
	cfg.Game.InterRoundPauseMs = 30
	gameManager := NewGameManager(cfg, WithRandomSource(NewSeededDiceRoller(5)))
	gameManager.StartGame()

	// Test case 1: The round stays resolving during the pause
	result, err := gameManager.ChooseStrategy(types.StrategyA3)
	require.NoError(t, err)
	require.True(t, result.Accepted)
	assert.Equal(t, types.PhaseResolving, result.State.Phase)
	assert.Equal(t, 1, result.State.Round)

	// Test case 2: Selections during the pause are ignored
	result, err = gameManager.ChooseStrategy(types.StrategyA3)
	require.NoError(t, err)
	assert.False(t, result.Accepted)

	// Test case 3: The next round opens after the pause
	assert.Eventually(t, func() bool {
		state, _ := gameManager.GetState()
		return state.Round == 2 && state.Phase == types.PhaseAwaitingChoice
	}, time.Second, 5*time.Millisecond)
}

func TestResetCancelsThinkDelay(t *testing.T) {
	// Setup
	cfg := instantConfig()
	cfg.Game.ThinkDelayBaseMs = 5000
	gameManager := NewGameManager(cfg, WithRandomSource(NewSeededDiceRoller(9)))
	gameManager.StartGame()

	done := make(chan *types.TurnResult, 1)
	go func() {
		result, _ := gameManager.ChooseStrategy(types.StrategyA1)
		done <- result
	}()

	assert.Eventually(t, func() bool {
		state, _ := gameManager.GetState()
		return state.Phase == types.PhaseResolving
	}, time.Second, time.Millisecond)

	// Test case 1: A second selection while the AI is thinking is ignored
	result, err := gameManager.ChooseStrategy(types.StrategyA2)
	require.NoError(t, err)
	assert.False(t, result.Accepted)

	// Test case 2: Reset releases the pending round without resolving it
	gameManager.ResetGame()

	select {
	case result := <-done:
		require.NotNil(t, result)
		assert.False(t, result.Accepted)
	case <-time.After(time.Second):
		t.Fatal("pending round was not cancelled by reset")
	}

	_, ok := gameManager.GetState()
	assert.False(t, ok)
}

func TestStartGameDiscardsPreviousGame(t *testing.T) {
	// Setup
	gameManager := NewGameManager(instantConfig(), WithRandomSource(NewSeededDiceRoller(11)))
	gameManager.StartGame()
	_, err := gameManager.ChooseStrategy(types.StrategyA1)
	require.NoError(t, err)

	// Test case 1: A new game starts from round one with empty history
	state := gameManager.StartGame()
	assert.Equal(t, 1, state.Round)
	assert.Empty(t, state.History)
	assert.Equal(t, state.Player, state.AI.Stats)
}

func TestPolicyFromConfig(t *testing.T) {
	// Test case 1: Heuristic by default
	gameManager := NewGameManager(config.DefaultConfig())
	assert.Equal(t, "heuristic", gameManager.policy.Name())

	// Test case 2: Minimax when configured
	cfg := config.DefaultConfig()
	cfg.AI.Policy = config.PolicyMinimax
	gameManager = NewGameManager(cfg)
	assert.Equal(t, "minimax", gameManager.policy.Name())

	// Test case 3: Explicit policy wins
	gameManager = NewGameManager(cfg, WithPolicy(NewHeuristicPolicy(NewSeededDiceRoller(1))))
	assert.Equal(t, "heuristic", gameManager.policy.Name())
}

func TestGetStrategies(t *testing.T) {
	gameManager := NewGameManager(instantConfig())
	assert.Len(t, gameManager.GetStrategies(), 5)
}
