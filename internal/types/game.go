package types

import "time"

// Attribute identifies one of the four stats tracked for each side
type Attribute int

const (
	Capital Attribute = iota
	Reputation
	Innovation
	Morale
)

// Attributes lists every attribute in canonical order
var Attributes = []Attribute{Capital, Reputation, Innovation, Morale}

func (a Attribute) String() string {
	switch a {
	case Capital:
		return "capital"
	case Reputation:
		return "reputation"
	case Innovation:
		return "innovation"
	case Morale:
		return "morale"
	default:
		return "unknown"
	}
}

// Stats is the four-dimensional attribute vector of one side.
// The same shape is used for effect deltas, where values may be negative.
type Stats struct {
	Capital    int `json:"capital" yaml:"capital"`
	Reputation int `json:"reputation" yaml:"reputation"`
	Innovation int `json:"innovation" yaml:"innovation"`
	Morale     int `json:"morale" yaml:"morale"`
}

// Get returns the value of a single attribute
func (s Stats) Get(a Attribute) int {
	switch a {
	case Capital:
		return s.Capital
	case Reputation:
		return s.Reputation
	case Innovation:
		return s.Innovation
	case Morale:
		return s.Morale
	}
	return 0
}

// Set returns a copy of s with one attribute replaced
func (s Stats) Set(a Attribute, v int) Stats {
	switch a {
	case Capital:
		s.Capital = v
	case Reputation:
		s.Reputation = v
	case Innovation:
		s.Innovation = v
	case Morale:
		s.Morale = v
	}
	return s
}

// Sum adds the four attributes together
func (s Stats) Sum() int {
	return s.Capital + s.Reputation + s.Innovation + s.Morale
}

// Sub returns the per-attribute difference s - o
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Capital:    s.Capital - o.Capital,
		Reputation: s.Reputation - o.Reputation,
		Innovation: s.Innovation - o.Innovation,
		Morale:     s.Morale - o.Morale,
	}
}

// StrategyID identifies a catalog strategy
type StrategyID string

const (
	StrategyA1 StrategyID = "A1"
	StrategyA2 StrategyID = "A2"
	StrategyA3 StrategyID = "A3"
	StrategyA4 StrategyID = "A4"
	StrategyA5 StrategyID = "A5"
)

// StrategyIDs lists every strategy id in catalog order
var StrategyIDs = []StrategyID{StrategyA1, StrategyA2, StrategyA3, StrategyA4, StrategyA5}

// Valid reports whether id is one of the five catalog strategies
func (id StrategyID) Valid() bool {
	switch id {
	case StrategyA1, StrategyA2, StrategyA3, StrategyA4, StrategyA5:
		return true
	}
	return false
}

// Strategy is an immutable catalog entry
type Strategy struct {
	ID          StrategyID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Effects     Stats      `json:"effects"`
	Risk        int        `json:"risk"`
	Cost        int        `json:"cost"`
	Icon        string     `json:"icon"`
	Hotkey      string     `json:"hotkey"`
}

// StrategyCombination grants a bonus when all member strategies are selected in one round
type StrategyCombination struct {
	Strategies []StrategyID `json:"strategies"`
	Effects    Stats        `json:"effects"`
	Bonus      string       `json:"bonus"`
}

// Winner is the result of a finished game
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerPlayer Winner = "player"
	WinnerAI     Winner = "ai"
	WinnerDraw   Winner = "draw"
)

// Phase is the round orchestrator state
type Phase string

const (
	PhaseAwaitingChoice Phase = "awaiting_choice"
	PhaseResolving      Phase = "resolving"
	PhaseGameOver       Phase = "game_over"
)

// RiskPenalty describes a triggered risk event
type RiskPenalty struct {
	Attribute Attribute `json:"-"`
	Name      string    `json:"attribute"`
	Amount    int       `json:"amount"`
}

// RoundRecord is one completed round. Records are never modified after being appended.
type RoundRecord struct {
	Round            int          `json:"round"`
	PlayerStrategy   StrategyID   `json:"player_strategy"`
	AIStrategy       StrategyID   `json:"ai_strategy"`
	PlayerEffects    Stats        `json:"player_effects"`
	AIEffects        Stats        `json:"ai_effects"`
	CombinationBonus string       `json:"combination_bonus,omitempty"`
	RiskTriggered    bool         `json:"risk_triggered"`
	RiskPenalty      *RiskPenalty `json:"risk_penalty,omitempty"`
	ThreatBefore     int          `json:"ai_threat_level_before"`
	ThreatAfter      int          `json:"ai_threat_level_after"`
	PlayerBefore     Stats        `json:"player_stats_before"`
	PlayerAfter      Stats        `json:"player_stats_after"`
	AIAfter          Stats        `json:"ai_stats_after"`
	Timestamp        time.Time    `json:"timestamp"`
}

// StatDelta is the summed change of the player's four attributes over the round
func (r RoundRecord) StatDelta() int {
	return r.PlayerAfter.Sub(r.PlayerBefore).Sum()
}

// ThreatDelta is the change of the AI threat level over the round
func (r RoundRecord) ThreatDelta() int {
	return r.ThreatAfter - r.ThreatBefore
}

// AIState is the opponent's side of the game
type AIState struct {
	LastStrategy StrategyID `json:"last_strategy,omitempty"`
	ThreatLevel  int        `json:"threat_level"`
	Stats        Stats      `json:"stats"`
}

// GameState represents one game from start to finish
type GameState struct {
	Round      int           `json:"round"`
	MaxRounds  int           `json:"max_rounds"`
	Player     Stats         `json:"player"`
	AI         AIState       `json:"ai"`
	RiskLevel  int           `json:"risk_level"`
	Phase      Phase         `json:"phase"`
	IsGameOver bool          `json:"is_game_over"`
	Winner     Winner        `json:"winner"`
	Reason     string        `json:"reason,omitempty"`
	History    []RoundRecord `json:"history"`
	AnalysisID string        `json:"analysis_id,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
}

// Clone returns a copy that shares no mutable memory with s
func (s GameState) Clone() GameState {
	c := s
	c.History = make([]RoundRecord, len(s.History))
	copy(c.History, s.History)
	return c
}

// TurnResult is returned for every strategy selection
type TurnResult struct {
	// Accepted is false when the selection was ignored (game over, round in
	// flight, cooldown, or the game was reset while the round was pending)
	Accepted bool          `json:"accepted"`
	State    GameState     `json:"state"`
	Record   *RoundRecord  `json:"record,omitempty"`
	Analysis *GameAnalysis `json:"analysis,omitempty"`
	Log      []string      `json:"log,omitempty"`
}
