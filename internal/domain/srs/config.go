package srs

import (
	"fmt"
	"time"
)

// Config is the scheduling policy configuration. It is passed by value so
// several schedulers with different settings can coexist.
type Config struct {
	// DesiredRetention is the recall probability at which a review is due.
	DesiredRetention float64

	// LearningSteps are the short delays used before a new meaning graduates.
	LearningSteps []time.Duration

	// RelearningSteps are used after a lapse. At least one is required.
	RelearningSteps []time.Duration

	// EnableFuzz spreads review intervals to avoid clustering.
	EnableFuzz bool

	// MaximumInterval caps review intervals, in days.
	MaximumInterval int

	Weights Weights
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		DesiredRetention: 0.90,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
		EnableFuzz:       true,
		MaximumInterval:  36500,
		Weights:          DefaultWeights,
	}
}

// Validate reports the first configuration problem, wrapped in ErrInvalidConfig
// or ErrInvalidWeights.
func (c Config) Validate() error {
	if c.DesiredRetention <= 0 || c.DesiredRetention >= 1 {
		return fmt.Errorf("%w: desired retention %g must be in (0, 1)", ErrInvalidConfig, c.DesiredRetention)
	}
	if len(c.RelearningSteps) == 0 {
		return fmt.Errorf("%w: at least one relearning step is required", ErrInvalidConfig)
	}
	for _, steps := range [][]time.Duration{c.LearningSteps, c.RelearningSteps} {
		for _, d := range steps {
			if d <= 0 {
				return fmt.Errorf("%w: step durations must be positive, got %s", ErrInvalidConfig, d)
			}
		}
	}
	if c.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum interval must be at least one day", ErrInvalidConfig)
	}
	return c.Weights.Validate()
}

func (c Config) clone() Config {
	c.LearningSteps = append([]time.Duration(nil), c.LearningSteps...)
	c.RelearningSteps = append([]time.Duration(nil), c.RelearningSteps...)
	return c
}
