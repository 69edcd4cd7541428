// internal/search/config.go
//
// Search configuration and its validation.
// Defines:
//   - FilterMode: how aggressively the dictionary is pruned (Simple/Advanced).
//   - Mode:       which mutation space is explored (NoSwap/SingleSwap/DoubleSwap).
//   - Config:     immutable per-search settings, with game defaults.

package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned (wrapped) for malformed search inputs.
var ErrInvalidConfig = errors.New("search: invalid configuration")

// FilterMode selects the dictionary pre-filter.
type FilterMode int

const (
	// FilterSimple keeps words made only of letters present on the board.
	FilterSimple FilterMode = iota
	// FilterAdvanced also keeps words with exactly one distinct missing letter.
	FilterAdvanced
)

func (m FilterMode) String() string {
	switch m {
	case FilterSimple:
		return "simple"
	case FilterAdvanced:
		return "advanced"
	default:
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
}

// ParseFilterMode maps "simple"/"advanced" (case-insensitive) to a FilterMode.
// An empty string means FilterSimple.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple":
		return FilterSimple, nil
	case "advanced":
		return FilterAdvanced, nil
	}
	return 0, fmt.Errorf("%w: unknown filter mode %q", ErrInvalidConfig, s)
}

// Mode selects the search strategy.
type Mode int

const (
	NoSwap Mode = iota
	SingleSwap
	DoubleSwap
)

func (m Mode) String() string {
	switch m {
	case NoSwap:
		return "noswap"
	case SingleSwap:
		return "swap"
	case DoubleSwap:
		return "doubleswap"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "noswap", "swap"/"singleswap", "doubleswap" (case and
// separators ignored). An empty string means NoSwap.
func ParseMode(s string) (Mode, error) {
	k := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch k {
	case "", "noswap", "simple":
		return NoSwap, nil
	case "swap", "singleswap", "single":
		return SingleSwap, nil
	case "doubleswap", "double":
		return DoubleSwap, nil
	}
	return 0, fmt.Errorf("%w: unknown search mode %q", ErrInvalidConfig, s)
}

// LengthRange is an inclusive word-length window.
type LengthRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n lies in [Min, Max].
func (r LengthRange) Contains(n int) bool { return n >= r.Min && n <= r.Max }

// Config holds the settings for one Search call.
type Config struct {
	Filter            FilterMode
	Mode              Mode
	Results           int
	SingleSwapLengths LengthRange
	DoubleSwapLengths LengthRange
	// Workers bounds the goroutines used by swap modes; <= 0 means NumCPU.
	Workers int
}

// DefaultConfig mirrors the game defaults: simple filtering, top three,
// single-swap words of 6–10 letters, double-swap words of 11–16 letters.
func DefaultConfig() Config {
	return Config{
		Filter:            FilterSimple,
		Mode:              NoSwap,
		Results:           3,
		SingleSwapLengths: LengthRange{Min: 6, Max: 10},
		DoubleSwapLengths: LengthRange{Min: 11, Max: 16},
	}
}

// Validate rejects configurations that cannot drive a search.
func (c Config) Validate() error {
	if c.Results <= 0 {
		return fmt.Errorf("%w: results count must be positive, got %d", ErrInvalidConfig, c.Results)
	}
	if c.Filter != FilterSimple && c.Filter != FilterAdvanced {
		return fmt.Errorf("%w: unknown filter mode %d", ErrInvalidConfig, int(c.Filter))
	}
	switch c.Mode {
	case NoSwap:
	case SingleSwap:
		if err := checkRange("single swap", c.SingleSwapLengths); err != nil {
			return err
		}
	case DoubleSwap:
		if err := checkRange("double swap", c.DoubleSwapLengths); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown search mode %d", ErrInvalidConfig, int(c.Mode))
	}
	return nil
}

func checkRange(name string, r LengthRange) error {
	if r.Min <= 0 || r.Max < r.Min {
		return fmt.Errorf("%w: %s word length range [%d,%d]", ErrInvalidConfig, name, r.Min, r.Max)
	}
	return nil
}
