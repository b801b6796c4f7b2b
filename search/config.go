// SPDX-License-Identifier: MIT

package search

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ptope/angles"
	"github.com/katalvlaran/ptope/filter"
)

// ErrInvalidConfig is returned by Validate and LoadConfig.
var ErrInvalidConfig = errors.New("search: invalid config")

// Config describes one search run. The YAML keys match the field tags.
type Config struct {
	// Dimension is the real dimension of the polytopes searched for.
	Dimension int `yaml:"dimension"`
	// Angles lists the allowed submultiples m of π (dihedral angle π/m).
	Angles []int `yaml:"angles"`
	// Dotted lists extra inner products ≤ −1 for ultraparallel facets.
	Dotted []float64 `yaml:"dotted"`
	// MaxVectors bounds the number of facets of a candidate.
	MaxVectors int `yaml:"max_vectors"`
	// Workers bounds the number of frontier candidates processed at once.
	Workers int `yaml:"workers"`
	// MaxFrontier bounds the number of candidates carried into the next level.
	MaxFrontier int `yaml:"max_frontier"`
	// LogLevel is a zap level name used by NewLogger.
	LogLevel string `yaml:"log_level"`
}

// Defaults.
const (
	DefaultDimension   = 3
	DefaultMaxFrontier = 10000
	DefaultLogLevel    = "info"
	defaultExtraFacets = 2
)

// DefaultConfig returns the configuration used for keys absent from YAML.
func DefaultConfig() Config {
	return Config{
		Dimension:   DefaultDimension,
		Angles:      append([]int(nil), angles.DefaultMultiples...),
		MaxVectors:  DefaultDimension + defaultExtraFacets,
		Workers:     runtime.GOMAXPROCS(0),
		MaxFrontier: DefaultMaxFrontier,
		LogLevel:    DefaultLogLevel,
	}
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
// An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field; the first problem is returned wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Dimension < 2:
		return fmt.Errorf("%w: dimension %d < 2", ErrInvalidConfig, c.Dimension)
	case c.MaxVectors <= c.Dimension:
		return fmt.Errorf("%w: max_vectors %d must exceed dimension %d", ErrInvalidConfig, c.MaxVectors, c.Dimension)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d < 1", ErrInvalidConfig, c.Workers)
	case c.MaxFrontier < 1:
		return fmt.Errorf("%w: max_frontier %d < 1", ErrInvalidConfig, c.MaxFrontier)
	}
	if _, err := angles.New(c.Angles...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, d := range c.Dotted {
		if d > filter.DottedBound+angles.Tolerance {
			return fmt.Errorf("%w: dotted product %v > -1", ErrInvalidConfig, d)
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// NewLogger builds a production zap logger at the named level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("search: log level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}
