package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey   string        `env:"GEMINI_API_KEY,required,notEmpty"`
	Model          string        `env:"MATCHMAKER_MODEL" envDefault:"gemini-2.5-flash"`
	Seed           int64         `env:"MATCHMAKER_SEED"` // 0 picks a random seed
	RequestTimeout time.Duration `env:"MATCHMAKER_REQUEST_TIMEOUT" envDefault:"90s"`
	LogFile        string        `env:"MATCHMAKER_LOG_FILE"`
	LogLevel       string        `env:"MATCHMAKER_LOG_LEVEL" envDefault:"info"`
}

// LoadDotEnv loads variables from the given files, or .env when none are
// named. Missing files are skipped; variables already set win.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("MATCHMAKER_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel converts LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("MATCHMAKER_LOG_LEVEL: %w", err)
	}
	return level, nil
}
