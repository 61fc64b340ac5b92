package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/api"
	"github.com/user/decision-duel/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// Logger level comes from the config, so fall back to defaults here
		setupLogger("info").Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Initialize game manager
	gameManager := game.NewGameManager(cfg)
	gameManager.SetLogger(logger)

	// Set up HTTP server
	server := setupHTTPServer(cfg, gameManager, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("port", cfg.Server.Port),
			zap.String("policy", cfg.AI.Policy))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(server, gameManager, logger)
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func setupHTTPServer(cfg config.Config, gameManager *game.GameManager, logger *zap.Logger) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewServer(cfg, gameManager, logger).Router(),
	}
}

func waitForShutdown(server *http.Server, gameManager *game.GameManager, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	gameManager.ResetGame()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	logger.Info("Shutting down")
}
