// SPDX-License-Identifier: MIT
// Package: unimix/mixsim
//
// options.go — internal configuration and deterministic defaults.
//
// Design:
//   - simConfig is the single source of truth for all generator knobs.
//   - Defaults are deterministic and documented; no globals.
//   - newSimConfig applies options in-order (later overrides earlier).
//   - Invalid option values are recorded in cfg.err and surfaced by Draw,
//     so option constructors never panic and Draw stays the only exit.
package mixsim

import "fmt"

// Deterministic defaults (named, no magic numbers).
const (
	// defaultSeed is the fixed "zero" seed used when callers pass seed==0.
	// The value is arbitrary but stable to keep reproducible defaults.
	defaultSeed int64 = 1

	// defaultGap is the distance between consecutive component means.
	defaultGap = 6.0

	// defaultSigmaLo and defaultSigmaHi bound the per-component spread.
	defaultSigmaLo = 0.5
	defaultSigmaHi = 1.5
)

// Option configures a Draw call via functional arguments.
type Option func(*simConfig)

// simConfig aggregates all knobs used by Draw.
// It is passed by value inside the package (immutable to callers).
type simConfig struct {
	seed    int64     // RNG seed; 0 resolves to defaultSeed
	gap     float64   // distance between consecutive means; must be > 0
	sigmaLo float64   // lower spread bound; must be > 0
	sigmaHi float64   // upper spread bound; must be >= sigmaLo
	weights []float64 // mixing proportions; nil means uniform 1/K

	// first error recorded during option parsing
	err error
}

// newSimConfig constructs a config with deterministic defaults and
// applies all options in order.
// Complexity: O(len(opts)) time, O(1) space.
func newSimConfig(opts ...Option) simConfig {
	cfg := simConfig{
		seed:    0, // resolved to defaultSeed at draw time
		gap:     defaultGap,
		sigmaLo: defaultSigmaLo,
		sigmaHi: defaultSigmaHi,
		weights: nil, // uniform
		err:     nil,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithSeed fixes the RNG seed for reproducible samples.
// Policy: seed==0 ⇒ defaultSeed; otherwise the seed is used verbatim.
// There is no time-based fallback anywhere.
func WithSeed(seed int64) Option {
	return func(c *simConfig) {
		c.seed = seed
	}
}

// WithGap sets the distance between consecutive component means
// (mean j sits at j·gap). gap must be positive.
func WithGap(gap float64) Option {
	return func(c *simConfig) {
		if gap <= 0 {
			c.recordErr(fmt.Errorf("%w: got %v", ErrBadGap, gap))

			return
		}
		c.gap = gap
	}
}

// WithSigmaRange bounds each component's standard deviation, drawn
// uniformly from [lo, hi]. Requires 0 < lo ≤ hi; lo == hi pins every
// component to the same spread.
func WithSigmaRange(lo, hi float64) Option {
	return func(c *simConfig) {
		if lo <= 0 || hi < lo {
			c.recordErr(fmt.Errorf("%w: got [%v, %v]", ErrBadSigmaRange, lo, hi))

			return
		}
		c.sigmaLo = lo
		c.sigmaHi = hi
	}
}

// WithWeights sets explicit mixing proportions instead of uniform 1/K.
// len(w) must equal the K passed to Draw; entries must be non-negative
// and sum to 1. The slice is copied, not retained.
func WithWeights(w []float64) Option {
	return func(c *simConfig) {
		cp := make([]float64, len(w))
		copy(cp, w)
		c.weights = cp
	}
}

// recordErr keeps the FIRST option error; later ones would mask the
// root cause.
func (c *simConfig) recordErr(err error) {
	if c.err == nil {
		c.err = err
	}
}
