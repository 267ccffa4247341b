package learner

import (
	"fmt"

	"github.com/ieee0824/compseg-go/merge"
)

// Config holds convergence-loop parameters.
type Config struct {
	Mode          merge.Mode
	Threshold     float64 // minimum inseparability
	Alpha         float64 // maximum p-value
	MaxIterations int     // iterations (including the final, non-merging one) before giving up
	Workers       int     // 0 = GOMAXPROCS
}

// DefaultConfig returns the standard consonant-mode configuration.
func DefaultConfig() Config {
	return Config{
		Mode:          merge.ModeConsonant,
		Threshold:     1.0,
		Alpha:         0.05,
		MaxIterations: 100,
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if _, err := merge.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %g", c.Threshold)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0,1], got %g", c.Alpha)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
