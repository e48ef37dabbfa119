package manager

import (
	"errors"
	"fmt"
	"time"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
)

// DefaultDebounce is the quiet period Schedule waits for before rebuilding.
const DefaultDebounce = 150 * time.Millisecond

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("manager: invalid config")

// Config holds the manager settings.
type Config struct {
	// Debounce is the quiet period after the last Schedule call before a
	// rebuild starts.
	Debounce time.Duration `json:"debounce"`
	// Epsilon is passed to the boolean evaluator.
	Epsilon float64 `json:"epsilon"`
}

// DefaultConfig returns the default manager settings.
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce, Epsilon: csg.DefaultEpsilon}
}

// Validate reports whether the settings are usable.
func (c Config) Validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative, got %s", ErrInvalidConfig, c.Debounce)
	}
	if err := c.csg().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) csg() csg.Config {
	return csg.Config{Epsilon: c.Epsilon}
}
