package csg

import (
	"errors"
	"fmt"
	"math"
)

// DefaultEpsilon is the coplanarity tolerance used by DefaultConfig.
const DefaultEpsilon = 1e-5

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("csg: invalid config")

// Config holds the evaluator settings.
type Config struct {
	// Epsilon is the half-width of the band around a plane inside which
	// points count as lying on it.
	Epsilon float64 `json:"epsilon"`
}

// DefaultConfig returns the default evaluator settings.
func DefaultConfig() Config {
	return Config{Epsilon: DefaultEpsilon}
}

// Validate reports whether the settings are usable.
func (c Config) Validate() error {
	if !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon must be a positive finite number, got %g", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}
