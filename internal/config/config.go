// Package config loads simulation settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"colonies/internal/payoff"
	"colonies/internal/tournament"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable knob. Defaults reproduce the classic setup:
// 10 rounds per battle, the default payoff table, 2/1/0 league points and
// 1000 sampling rounds.
type Config struct {
	Rounds         int   `env:"COLONIES_ROUNDS" envDefault:"10"`
	SamplingRounds int   `env:"COLONIES_GROWTH_ROUNDS" envDefault:"1000"`
	Workers        int   `env:"COLONIES_WORKERS" envDefault:"1"`
	Seed           int64 `env:"COLONIES_SEED" envDefault:"0"`

	PointsWin  int `env:"COLONIES_POINTS_WIN" envDefault:"2"`
	PointsTie  int `env:"COLONIES_POINTS_TIE" envDefault:"1"`
	PointsLoss int `env:"COLONIES_POINTS_LOSS" envDefault:"0"`

	PayoffReward     int `env:"COLONIES_PAYOFF_REWARD" envDefault:"0"`
	PayoffSucker     int `env:"COLONIES_PAYOFF_SUCKER" envDefault:"0"`
	PayoffTemptation int `env:"COLONIES_PAYOFF_TEMPTATION" envDefault:"2"`
	PayoffPunishment int `env:"COLONIES_PAYOFF_PUNISHMENT" envDefault:"1"`

	LogLevel string `env:"COLONIES_LOG_LEVEL" envDefault:"INFO"`
	Store    string `env:"COLONIES_STORE" envDefault:"memory"`
	DBPath   string `env:"COLONIES_DB_PATH" envDefault:"colonies.db"`
	// ArtifactsDir, when set, receives JSON and CSV artifacts for every run.
	ArtifactsDir string `env:"COLONIES_ARTIFACTS_DIR"`
}

// Default returns the configuration with every default applied and no
// environment overrides.
// It panics if the envDefault tags themselves do not parse.
func Default() Config {
	cfg, err := defaults()
	if err != nil {
		panic(err)
	}
	return cfg
}

// defaults parses an empty environment, which only applies envDefault tags.
func defaults() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return Config{}, fmt.Errorf("parse defaults: %w", err)
	}
	return cfg, nil
}

// FromEnv parses the process environment over the defaults and validates
// the result.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects zero or negative counts. Loss points and payoffs may be
// zero but never negative.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"rounds", c.Rounds},
		{"sampling rounds", c.SamplingRounds},
		{"workers", c.Workers},
		{"points for win", c.PointsWin},
		{"points for tie", c.PointsTie},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.PointsLoss < 0 {
		return fmt.Errorf("%w: points for loss must not be negative, got %d", ErrInvalidConfig, c.PointsLoss)
	}
	if err := c.Matrix().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Matrix() payoff.Matrix {
	return payoff.New(c.PayoffReward, c.PayoffSucker, c.PayoffTemptation, c.PayoffPunishment)
}

func (c Config) Points() tournament.Points {
	return tournament.Points{Win: c.PointsWin, Tie: c.PointsTie, Loss: c.PointsLoss}
}
