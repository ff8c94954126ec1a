// Package main is the entry point for the earthlike cubemap generator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/earthlike/internal/config"
	"github.com/Faultbox/earthlike/internal/logger"
	"github.com/Faultbox/earthlike/internal/planet"
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

	logger.Info("=== earthlike ===",
		zap.Int("dim", cfg.Grid.Dim),
		zap.Int64("seed", cfg.Bumps.Seed),
		zap.Int("seeds", cfg.Bumps.Seeds))
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prof, err := planet.LoadProfile(cfg)
	if err != nil {
		logger.Fatal("failed to load sample profile", zap.Error(err))
	}
	logger.Info("sample profile ready",
		zap.String("source", cfg.Profile.Source),
		zap.Int("width", prof.Width),
		zap.Int("height", prof.Height),
		zap.Bool("alpha", prof.HasAlpha))

	res, err := planet.Generate(ctx, cfg, prof)
	if err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}

	if err := res.Save(cfg); err != nil {
		logger.Fatal("failed to write output", zap.Error(err))
	}

	logger.Info("done", zap.String("dir", cfg.Output.Dir), zap.Int("bumps", len(res.Bumps)))
}
