package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tatianab/matchmaker/internal/config"
	"github.com/tatianab/matchmaker/internal/engine"
	"github.com/tatianab/matchmaker/internal/genetics"
	"github.com/tatianab/matchmaker/internal/models"
	"github.com/tatianab/matchmaker/internal/pairing"
	"github.com/tatianab/matchmaker/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := models.CheckClassHierarchy(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = genetics.NewSeed(); err != nil {
			return err
		}
	}
	logger.Info("starting matchmaker", "model", cfg.Model, "seed", seed)

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	mm := pairing.NewMatchmaker(genetics.NewSource(seed), eng, logger)
	if err := tui.Run(pairing.NewSession(mm), cfg.RequestTimeout); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// newLogger writes to the configured log file; without one, logs are
// dropped because the TUI owns the terminal.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
