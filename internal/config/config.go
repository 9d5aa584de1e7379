// Package config provides YAML-based bot configuration loading and
// search presets for tetrabot.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tetrabot/internal/player"
	"github.com/vovakirdan/tetrabot/internal/search"
)

// BotConfig contains all configuration for a bot run.
type BotConfig struct {
	Search    SearchConfig    `yaml:"search"`
	Potential PotentialConfig `yaml:"potential"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Run       RunConfig       `yaml:"run"`
}

// SearchConfig defines the beam search parameters.
type SearchConfig struct {
	Depth     int `yaml:"depth"`
	BeamWidth int `yaml:"beam_width"`
	ChildCap  int `yaml:"child_cap"` // 0 = keep every child
	Workers   int `yaml:"workers"`   // 0 = one per CPU
}

// PotentialConfig defines the attack potential lookahead.
type PotentialConfig struct {
	Depth    int `yaml:"depth"`
	PerPiece int `yaml:"per_piece"`
	Slack    int `yaml:"slack"`
}

// EvaluatorConfig selects a registered evaluator and overrides its weights.
type EvaluatorConfig struct {
	Name    string             `yaml:"name"`
	Weights map[string]float64 `yaml:"weights"`
}

// RunConfig defines a self-play session.
type RunConfig struct {
	Pieces int    `yaml:"pieces"`
	Seed   uint64 `yaml:"seed"` // 0 = random based on time
}

// Options converts the section into search options. The logger is left for
// the caller to set.
func (c SearchConfig) Options() search.Options {
	return search.Options{
		Depth:     c.Depth,
		BeamWidth: c.BeamWidth,
		ChildCap:  c.ChildCap,
		Workers:   c.Workers,
	}
}

// Options converts the section into attack potential pruning parameters.
func (c PotentialConfig) Options() player.PotentialOptions {
	return player.PotentialOptions{
		PerPiece: c.PerPiece,
		Slack:    c.Slack,
	}
}

// Validate reports every out-of-range value.
func (c BotConfig) Validate() error {
	var errs []error
	if c.Search.Depth < 1 {
		errs = append(errs, fmt.Errorf("search.depth must be at least 1, got %d", c.Search.Depth))
	}
	if c.Search.BeamWidth < 1 {
		errs = append(errs, fmt.Errorf("search.beam_width must be at least 1, got %d", c.Search.BeamWidth))
	}
	if c.Search.ChildCap < 0 {
		errs = append(errs, fmt.Errorf("search.child_cap must not be negative, got %d", c.Search.ChildCap))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers))
	}
	if c.Potential.Depth < 0 {
		errs = append(errs, fmt.Errorf("potential.depth must not be negative, got %d", c.Potential.Depth))
	}
	if c.Evaluator.Name == "" {
		errs = append(errs, errors.New("evaluator.name is required"))
	}
	if c.Run.Pieces < 0 {
		errs = append(errs, fmt.Errorf("run.pieces must not be negative, got %d", c.Run.Pieces))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
