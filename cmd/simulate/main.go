package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/game"
	"github.com/user/decision-duel/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to configuration file")
	games := flag.Int("games", 100, "Number of games to simulate")
	seed := flag.Int64("seed", 1, "Random seed")
	favourites := flag.String("favourites", "", "Comma separated strategy ids the autopilot prefers, e.g. A2,A3")
	policy := flag.String("policy", "", "Override the AI policy (heuristic, minimax)")
	verbose := flag.Bool("v", false, "Log every round")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyOverrides(&cfg, *policy); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		logCfg := zap.NewDevelopmentConfig()
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ = logCfg.Build()
	}
	defer logger.Sync()

	rng := game.NewSeededDiceRoller(*seed)
	gameManager := game.NewGameManager(cfg, game.WithRandomSource(rng))
	gameManager.SetLogger(logger)

	var ids []types.StrategyID
	for _, f := range strings.Split(*favourites, ",") {
		if id, ok := game.ParseStrategy(strings.TrimSpace(f)); ok {
			ids = append(ids, id)
		}
	}
	pilot := game.NewAutoPilot(gameManager, game.NewDecisionEngine(rng, ids...), 0)
	pilot.Logger = logger

	winners := make(map[types.Winner]int)
	patterns := make(map[types.PatternType]int)
	rounds := 0

	for i := 0; i < *games; i++ {
		gameManager.StartGame()
		state, err := pilot.Play(context.Background())
		if err != nil {
			fmt.Printf("Game %d failed: %v\n", i+1, err)
			os.Exit(1)
		}

		winners[state.Winner]++
		rounds += len(state.History)
		if analysis, ok := gameManager.GetAnalysis(state.AnalysisID); ok && len(analysis.StrategyPatterns) > 0 {
			patterns[analysis.StrategyPatterns[0].Type]++
		}
	}

	fmt.Printf("Simulated %d games (policy %s)\n", *games, cfg.AI.Policy)
	fmt.Printf("  player wins: %d\n", winners[types.WinnerPlayer])
	fmt.Printf("  AI wins:     %d\n", winners[types.WinnerAI])
	fmt.Printf("  draws:       %d\n", winners[types.WinnerDraw])
	if *games > 0 {
		fmt.Printf("  avg rounds:  %.2f\n", float64(rounds)/float64(*games))
	}

	type count struct {
		pattern types.PatternType
		n       int
	}
	var counts []count
	for p, n := range patterns {
		counts = append(counts, count{p, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].pattern < counts[j].pattern
	})

	fmt.Println("Top patterns:")
	for _, c := range counts {
		fmt.Printf("  %-17s %d\n", c.pattern, c.n)
	}
}

// applyOverrides applies the command line policy, turns off every delay and
// validates the result
func applyOverrides(cfg *config.Config, policy string) error {
	if policy != "" {
		cfg.AI.Policy = policy
	}

	// Simulations never wait on think time or pauses
	cfg.Game.ThinkDelayBaseMs = 0
	cfg.Game.ThinkDelayJitterMs = 0
	cfg.Game.InterRoundPauseMs = 0
	cfg.Game.SelectionCooldownMs = 0

	return cfg.Validate()
}
