package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/game"
	"github.com/user/decision-duel/internal/tui"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to configuration file")
	logPath := flag.String("log", "", "Optional file for debug logs")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	gameManager := game.NewGameManager(cfg)

	// The terminal belongs to the UI, so logs only go to a file when asked
	if *logPath != "" {
		logCfg := zap.NewDevelopmentConfig()
		logCfg.OutputPaths = []string{*logPath}
		logger, err := logCfg.Build()
		if err != nil {
			fmt.Printf("Error creating logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		gameManager.SetLogger(logger)
	}

	if err := tui.Run(gameManager); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
