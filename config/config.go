package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Policy names accepted in AIConfig.Policy
const (
	PolicyHeuristic = "heuristic"
	PolicyMinimax   = "minimax"
)

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game" yaml:"game"`

	// Opponent configuration
	AI AIConfig `json:"ai" yaml:"ai"`

	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Number of rounds in one game
	MaxRounds int `json:"max_rounds" yaml:"max_rounds" env:"DUEL_MAX_ROUNDS"`

	// Fixed part of the AI think time in milliseconds
	ThinkDelayBaseMs int `json:"think_delay_base_ms" yaml:"think_delay_base_ms" env:"DUEL_THINK_DELAY_BASE_MS"`

	// Upper bound of the random part of the AI think time in milliseconds
	ThinkDelayJitterMs int `json:"think_delay_jitter_ms" yaml:"think_delay_jitter_ms" env:"DUEL_THINK_DELAY_JITTER_MS"`

	// Pause before the next round starts in milliseconds
	InterRoundPauseMs int `json:"inter_round_pause_ms" yaml:"inter_round_pause_ms" env:"DUEL_INTER_ROUND_PAUSE_MS"`

	// Minimum time between two accepted selections in milliseconds
	SelectionCooldownMs int `json:"selection_cooldown_ms" yaml:"selection_cooldown_ms" env:"DUEL_SELECTION_COOLDOWN_MS"`

	// Difficulty label (easy, normal, hard); informational only
	Difficulty string `json:"difficulty" yaml:"difficulty" env:"DUEL_DIFFICULTY"`
}

// AIConfig holds opponent specific configuration
type AIConfig struct {
	// Decision policy (heuristic, minimax)
	Policy string `json:"policy" yaml:"policy" env:"DUEL_AI_POLICY"`

	// Search depth for the minimax policy
	MinimaxDepth int `json:"minimax_depth" yaml:"minimax_depth" env:"DUEL_AI_MINIMAX_DEPTH"`

	// Whether the minimax root ply maximizes
	MinimaxMaximizing bool `json:"minimax_maximizing" yaml:"minimax_maximizing" env:"DUEL_AI_MINIMAX_MAXIMIZING"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" yaml:"port" env:"DUEL_PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" yaml:"log_level" env:"DUEL_LOG_LEVEL"`

	// Base URL encoded into analysis share codes
	PublicURL string `json:"public_url" yaml:"public_url" env:"DUEL_PUBLIC_URL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			MaxRounds:           5,
			ThinkDelayBaseMs:    1000,
			ThinkDelayJitterMs:  1000,
			InterRoundPauseMs:   3000,
			SelectionCooldownMs: 500,
			Difficulty:          "normal",
		},
		AI: AIConfig{
			Policy:            PolicyHeuristic,
			MinimaxDepth:      2,
			MinimaxMaximizing: true,
		},
		Server: ServerConfig{
			Port:      "8080",
			LogLevel:  "info",
			PublicURL: "http://localhost:8080",
		},
	}
}

// ThinkDelayBase returns the fixed think time
func (g GameConfig) ThinkDelayBase() time.Duration {
	return time.Duration(g.ThinkDelayBaseMs) * time.Millisecond
}

// ThinkDelayJitter returns the maximum random think time
func (g GameConfig) ThinkDelayJitter() time.Duration {
	return time.Duration(g.ThinkDelayJitterMs) * time.Millisecond
}

// InterRoundPause returns the pause between rounds
func (g GameConfig) InterRoundPause() time.Duration {
	return time.Duration(g.InterRoundPauseMs) * time.Millisecond
}

// SelectionCooldown returns the re-entrancy window
func (g GameConfig) SelectionCooldown() time.Duration {
	return time.Duration(g.SelectionCooldownMs) * time.Millisecond
}

// Validate checks the configuration for values the game cannot run with
func (c Config) Validate() error {
	if c.Game.MaxRounds < 1 {
		return errors.New("game.max_rounds must be positive")
	}
	if c.Game.ThinkDelayBaseMs < 0 || c.Game.ThinkDelayJitterMs < 0 ||
		c.Game.InterRoundPauseMs < 0 || c.Game.SelectionCooldownMs < 0 {
		return errors.New("game delays must not be negative")
	}
	switch c.AI.Policy {
	case PolicyHeuristic, PolicyMinimax:
	default:
		return fmt.Errorf("unknown ai.policy %q", c.AI.Policy)
	}
	if c.AI.Policy == PolicyMinimax && c.AI.MinimaxDepth < 1 {
		return errors.New("ai.minimax_depth must be positive")
	}
	return nil
}

// ApplyEnv overrides configuration fields from DUEL_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func encode(config Config, path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// LoadConfig loads configuration from a file, then applies environment overrides
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create default config file if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}

		if isYAML(path) {
			err = yaml.Unmarshal(data, &config)
		} else {
			err = json.Unmarshal(data, &config)
		}
		if err != nil {
			return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&config); err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encode(config, path)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
