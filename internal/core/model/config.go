package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration indicates a configuration value is out of range.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Default configuration values.
const (
	DefaultPomosBeforeLongBreak = 4
	DefaultWorkSeconds          = 25 * 60
	DefaultShortBreakSeconds    = 5 * 60
	DefaultLongBreakSeconds     = 15 * 60
)

// Configuration holds the cycle lengths and the number of work sessions
// between long breaks. All lengths are whole seconds.
type Configuration struct {
	PomosBeforeLongBreak int
	WorkSeconds          int
	ShortBreakSeconds    int
	LongBreakSeconds     int
}

// DefaultConfiguration returns the classic 4 x 25/5/15 schedule.
func DefaultConfiguration() Configuration {
	return Configuration{
		PomosBeforeLongBreak: DefaultPomosBeforeLongBreak,
		WorkSeconds:          DefaultWorkSeconds,
		ShortBreakSeconds:    DefaultShortBreakSeconds,
		LongBreakSeconds:     DefaultLongBreakSeconds,
	}
}

// Validate reports the first non-positive value.
func (config Configuration) Validate() error {
	switch {
	case config.PomosBeforeLongBreak <= 0:
		return fmt.Errorf("%w: pomodoros before long break must be positive, got %d", ErrInvalidConfiguration, config.PomosBeforeLongBreak)
	case config.WorkSeconds <= 0:
		return fmt.Errorf("%w: work length must be positive, got %d", ErrInvalidConfiguration, config.WorkSeconds)
	case config.ShortBreakSeconds <= 0:
		return fmt.Errorf("%w: short break length must be positive, got %d", ErrInvalidConfiguration, config.ShortBreakSeconds)
	case config.LongBreakSeconds <= 0:
		return fmt.Errorf("%w: long break length must be positive, got %d", ErrInvalidConfiguration, config.LongBreakSeconds)
	}
	return nil
}
