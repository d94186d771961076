// Package main is the entry point for the scene player.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/openreality/goplayer/internal/config"
	"github.com/openreality/goplayer/internal/logger"
	"github.com/openreality/goplayer/internal/player"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== goplayer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create and run the player
	p, err := player.New(cfg)
	if err != nil {
		logger.Error("failed to create player", zap.Error(err))
		os.Exit(1)
	}
	defer p.Close()

	if err := p.Run(); err != nil {
		logger.Error("player error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("player closed normally")
}
