package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/analytics"
	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
	"go.uber.org/zap"
)

// highRiskWarning is the per-strategy risk above which the round log warns
const highRiskWarning = 20

// GameManager owns the current game and sequences its rounds
type GameManager struct {
	state     *types.GameState
	stateLock sync.RWMutex
	config    config.Config
	Logger    *zap.Logger
	rng       interfaces.RandomSource
	clock     interfaces.Clock
	policy    OpponentPolicy
	risk      *RiskEngine
	analyzer  *analytics.Analyzer
	analyses  interfaces.AnalysisStore

	lastSelection time.Time
	generation    uint64
	cancel        chan struct{}
	pauseTimer    *time.Timer
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// Option customizes a GameManager
type Option func(*GameManager)

// WithRandomSource replaces the dice roller, e.g. with a scripted test double
func WithRandomSource(rng interfaces.RandomSource) Option {
	return func(gm *GameManager) { gm.rng = rng }
}

// WithClock replaces the wall clock
func WithClock(clock interfaces.Clock) Option {
	return func(gm *GameManager) { gm.clock = clock }
}

// WithPolicy replaces the opponent policy chosen from configuration
func WithPolicy(policy OpponentPolicy) Option {
	return func(gm *GameManager) { gm.policy = policy }
}

// WithAnalysisStore replaces the in-memory analysis store
func WithAnalysisStore(store interfaces.AnalysisStore) Option {
	return func(gm *GameManager) { gm.analyses = store }
}

// NewGameManager creates a new game manager
func NewGameManager(cfg config.Config, opts ...Option) *GameManager {
	gm := &GameManager{
		config: cfg,
		Logger: zap.NewNop(), // Will be set by the caller
		cancel: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(gm)
	}

	if gm.rng == nil {
		gm.rng = NewDiceRoller()
	}
	if gm.clock == nil {
		gm.clock = SystemClock()
	}
	if gm.policy == nil {
		gm.policy = policyFromConfig(cfg.AI, gm.rng)
	}
	if gm.analyses == nil {
		gm.analyses = analytics.NewStore()
	}
	gm.risk = NewRiskEngine(gm.rng)
	gm.analyzer = analytics.NewAnalyzer(StrategyName, gm.clock.Now)

	return gm
}

func policyFromConfig(cfg config.AIConfig, rng interfaces.RandomSource) OpponentPolicy {
	if cfg.Policy == config.PolicyMinimax {
		return NewMinimaxPolicy(cfg.MinimaxDepth, cfg.MinimaxMaximizing)
	}
	return NewHeuristicPolicy(rng)
}

// SetLogger replaces the logger of the manager and its analyzer
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.Logger = logger
	gm.analyzer.Logger = logger.Named("analytics")
}

// cancelPendingLocked invalidates any in-flight think delay or round pause
func (gm *GameManager) cancelPendingLocked() {
	gm.generation++
	close(gm.cancel)
	gm.cancel = make(chan struct{})
	if gm.pauseTimer != nil {
		gm.pauseTimer.Stop()
		gm.pauseTimer = nil
	}
}

// StartGame discards any current game and starts a fresh one. Both sides
// start from the same randomly drawn stats.
func (gm *GameManager) StartGame() types.GameState {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.cancelPendingLocked()

	initial := RandomInitialStats(gm.rng)
	gm.state = &types.GameState{
		Round:     1,
		MaxRounds: gm.config.Game.MaxRounds,
		Player:    initial,
		AI: types.AIState{
			ThreatLevel: 1,
			Stats:       initial,
		},
		Phase:     types.PhaseAwaitingChoice,
		History:   make([]types.RoundRecord, 0, gm.config.Game.MaxRounds),
		StartedAt: gm.clock.Now(),
	}
	gm.lastSelection = time.Time{}

	gm.Logger.Info("Game started",
		zap.Int("max_rounds", gm.state.MaxRounds),
		zap.String("policy", gm.policy.Name()),
		zap.Int("capital", initial.Capital),
		zap.Int("reputation", initial.Reputation),
		zap.Int("innovation", initial.Innovation),
		zap.Int("morale", initial.Morale))

	return gm.state.Clone()
}

// ResetGame discards the current game and cancels any pending delay
func (gm *GameManager) ResetGame() {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.cancelPendingLocked()
	gm.state = nil
	gm.lastSelection = time.Time{}

	gm.Logger.Info("Game reset")
}

// GetState returns a snapshot of the current game
func (gm *GameManager) GetState() (types.GameState, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	if gm.state == nil {
		return types.GameState{}, false
	}
	return gm.state.Clone(), true
}

// GetAnalysis retrieves a finished game's analysis
func (gm *GameManager) GetAnalysis(gameID string) (types.GameAnalysis, bool) {
	return gm.analyses.Get(gameID)
}

// GetStrategies returns the strategy catalog
func (gm *GameManager) GetStrategies() []types.Strategy {
	return Strategies()
}

// ignoredLocked builds the result for a selection that was not accepted
func (gm *GameManager) ignoredLocked(strategyID types.StrategyID, why string) *types.TurnResult {
	gm.Logger.Debug("Ignoring strategy selection",
		zap.String("strategy", string(strategyID)),
		zap.String("reason", why))

	result := &types.TurnResult{Accepted: false}
	if gm.state != nil {
		result.State = gm.state.Clone()
	}
	return result
}

func (gm *GameManager) thinkDelayLocked() time.Duration {
	delay := gm.config.Game.ThinkDelayBase()
	if jitter := gm.config.Game.ThinkDelayJitter(); jitter > 0 {
		delay += time.Duration(gm.rng.Float64() * float64(jitter))
	}
	return delay
}

// ChooseStrategy plays one round with the player's strategy. Unknown ids
// return ErrUnknownStrategy without touching the game. Selections while the
// game is over, a round is in flight, or inside the cooldown window are
// ignored and reported with Accepted=false.
func (gm *GameManager) ChooseStrategy(strategyID types.StrategyID) (*types.TurnResult, error) {
	if !strategyID.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategyID)
	}

	gm.stateLock.Lock()
	switch {
	case gm.state == nil:
		defer gm.stateLock.Unlock()
		return gm.ignoredLocked(strategyID, "no active game"), nil
	case gm.state.IsGameOver:
		defer gm.stateLock.Unlock()
		return gm.ignoredLocked(strategyID, "game over"), nil
	case gm.state.Phase == types.PhaseResolving:
		defer gm.stateLock.Unlock()
		return gm.ignoredLocked(strategyID, "round in progress"), nil
	}

	now := gm.clock.Now()
	if !gm.lastSelection.IsZero() && now.Sub(gm.lastSelection) < gm.config.Game.SelectionCooldown() {
		defer gm.stateLock.Unlock()
		return gm.ignoredLocked(strategyID, "cooldown"), nil
	}
	gm.lastSelection = now
	gm.state.Phase = types.PhaseResolving

	// The AI decides from recorded history only
	aiStrategy := gm.policy.Choose(gm.state.Clone().History, gm.state.Player, gm.state.AI.Stats)
	generation := gm.generation
	cancel := gm.cancel
	delay := gm.thinkDelayLocked()
	gm.stateLock.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-cancel:
			timer.Stop()
			gm.stateLock.RLock()
			defer gm.stateLock.RUnlock()
			return gm.ignoredLocked(strategyID, "game reset while AI was thinking"), nil
		}
	}

	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.generation != generation || gm.state == nil {
		return gm.ignoredLocked(strategyID, "game reset while AI was thinking"), nil
	}

	result, err := gm.resolveRoundLocked(strategyID, aiStrategy)
	if err != nil {
		gm.state.Phase = types.PhaseAwaitingChoice
		return nil, err
	}

	if !gm.state.IsGameOver {
		gm.scheduleNextRoundLocked(generation)
	}
	result.State = gm.state.Clone()

	return result, nil
}

// resolveRoundLocked applies both strategies, rolls risk, records the round
// and judges the outcome.
func (gm *GameManager) resolveRoundLocked(playerStrategy, aiStrategy types.StrategyID) (*types.TurnResult, error) {
	state := gm.state
	var log []string

	playerResult, err := ApplyStrategies(state.Player, []types.StrategyID{playerStrategy})
	if err != nil {
		return nil, fmt.Errorf("failed to apply player strategy: %w", err)
	}
	aiResult, err := ApplyStrategies(state.AI.Stats, []types.StrategyID{aiStrategy})
	if err != nil {
		return nil, fmt.Errorf("failed to apply AI strategy: %w", err)
	}

	log = append(log,
		fmt.Sprintf("You chose [%s] %s", playerStrategy, StrategyName(playerStrategy)),
		fmt.Sprintf("AI chose [%s] %s", aiStrategy, StrategyName(aiStrategy)))

	riskLevel := state.RiskLevel + playerResult.RiskIncrease
	finalStats, penalty := gm.risk.Evaluate(riskLevel, playerResult.Stats)
	threatAfter := ThreatLevel(finalStats)

	record := types.RoundRecord{
		Round:            state.Round,
		PlayerStrategy:   playerStrategy,
		AIStrategy:       aiStrategy,
		PlayerEffects:    playerResult.Effects,
		AIEffects:        aiResult.Effects,
		CombinationBonus: playerResult.CombinationBonus,
		RiskTriggered:    penalty != nil,
		RiskPenalty:      penalty,
		ThreatBefore:     state.AI.ThreatLevel,
		ThreatAfter:      threatAfter,
		PlayerBefore:     state.Player,
		PlayerAfter:      finalStats,
		AIAfter:          aiResult.Stats,
		Timestamp:        gm.clock.Now(),
	}

	log = append(log, "Effects: "+formatEffects(playerResult.Effects))
	if playerResult.RiskIncrease > highRiskWarning {
		log = append(log, fmt.Sprintf("Risk warning: this strategy carries high risk (%d)", playerResult.RiskIncrease))
	}
	if playerResult.CombinationBonus != "" {
		log = append(log, playerResult.CombinationBonus)
	}
	if penalty != nil {
		log = append(log, fmt.Sprintf("Risk explosion! %s dropped by %d", penalty.Name, penalty.Amount))
		gm.Logger.Info("Risk triggered",
			zap.Int("round", state.Round),
			zap.Int("risk_level", riskLevel),
			zap.String("attribute", penalty.Name),
			zap.Int("penalty", penalty.Amount))
	}
	log = append(log, fmt.Sprintf("Ability: you %d vs AI %d", rounded(Ability(finalStats)), rounded(Ability(aiResult.Stats))))

	state.Player = finalStats
	state.AI = types.AIState{
		LastStrategy: aiStrategy,
		ThreatLevel:  threatAfter,
		Stats:        aiResult.Stats,
	}
	state.RiskLevel = riskLevel
	state.History = append(state.History, record)

	gm.Logger.Info("Round resolved",
		zap.Int("round", record.Round),
		zap.String("player_strategy", string(playerStrategy)),
		zap.String("ai_strategy", string(aiStrategy)),
		zap.Int("risk_level", riskLevel),
		zap.Int("threat_level", threatAfter),
		zap.Float64("player_ability", Ability(finalStats)),
		zap.Float64("ai_ability", Ability(aiResult.Stats)))

	result := &types.TurnResult{Accepted: true, Record: &record}

	verdict := Judge(finalStats, aiResult.Stats, state.Round, state.MaxRounds)
	if verdict.Winner != types.WinnerNone {
		state.IsGameOver = true
		state.Phase = types.PhaseGameOver
		state.Winner = verdict.Winner
		state.Reason = verdict.Reason
		log = append(log, verdict.Reason)

		analysis := gm.analyzer.Finalize(state.Clone())
		if err := gm.analyses.Put(analysis); err != nil {
			gm.Logger.Error("Failed to store game analysis",
				zap.String("game_id", analysis.GameID),
				zap.Error(err))
		} else {
			state.AnalysisID = analysis.GameID
			stored := analysis.Clone()
			result.Analysis = &stored
		}

		gm.Logger.Info("Game over",
			zap.String("winner", string(verdict.Winner)),
			zap.String("rule", string(verdict.Rule)),
			zap.Int("rounds", len(state.History)),
			zap.String("analysis_id", state.AnalysisID))
	} else {
		log = append(log, fmt.Sprintf("Round %d finished", state.Round))
	}

	result.Log = log
	return result, nil
}

// scheduleNextRoundLocked advances the round counter after the inter-round
// pause. Only a reset cancels the pause.
func (gm *GameManager) scheduleNextRoundLocked(generation uint64) {
	pause := gm.config.Game.InterRoundPause()
	if pause <= 0 {
		gm.advanceRoundLocked()
		return
	}

	gm.pauseTimer = time.AfterFunc(pause, func() {
		gm.stateLock.Lock()
		defer gm.stateLock.Unlock()

		if gm.generation != generation || gm.state == nil {
			return
		}
		gm.pauseTimer = nil
		gm.advanceRoundLocked()
	})
}

func (gm *GameManager) advanceRoundLocked() {
	gm.state.Round++
	gm.state.Phase = types.PhaseAwaitingChoice
	gm.Logger.Debug("Round started", zap.Int("round", gm.state.Round))
}

// formatEffects renders non-zero deltas like "capital-30, reputation+15"
func formatEffects(effects types.Stats) string {
	var parts []string
	for _, attr := range types.Attributes {
		v := effects.Get(attr)
		if v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%+d", attr, v))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
