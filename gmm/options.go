// Package gmm - tunable parameters for the Fit driver.
package gmm

import (
	"context"
	"log"
)

// Default fitting parameters, used by DefaultOptions.
const (
	// DefaultEps is the convergence threshold on the log-likelihood gain.
	DefaultEps = 0.01

	// DefaultMaxIter is the iteration budget.
	DefaultMaxIter = 10

	// DefaultWorkers runs the E- and M-steps on the calling goroutine.
	DefaultWorkers = 1
)

// Options configures an EM run.
//
// Fields:
//   - Eps     — convergence threshold: the run converges when the
//     log-likelihood gain between two consecutive iterations is ≤ Eps.
//     Must be non-negative; 0 demands an exactly flat step.
//   - MaxIter — iteration budget; exhausting it yields StatusMaxIter,
//     which is a valid outcome, not an error. Must be ≥ 1.
//   - Workers — goroutines for the E-step (rows) and M-step
//     (components). Values ≤ 1 run serially. Any worker count produces
//     bit-identical results; only wall-clock time changes.
//   - Verbose — when true, one progress line per iteration is written
//     to Logger. Purely observational: numbers never depend on it.
//   - Logger  — destination for progress lines; nil falls back to a
//     stderr logger. Ignored unless Verbose is set.
//   - Ctx     — optional cancellation/deadline context, checked once per
//     iteration; nil means context.Background().
//
// Example:
//
//	opts := gmm.DefaultOptions()
//	opts.Eps = 1e-3
//	opts.MaxIter = 500
//	res, err := gmm.Fit(data, init, opts)
type Options struct {
	Eps     float64
	MaxIter int
	Workers int
	Verbose bool
	Logger  *log.Logger
	Ctx     context.Context
}

// DefaultOptions returns Options with sane defaults:
//   - Eps = 0.01
//   - MaxIter = 10
//   - Workers = 1 (serial)
//   - Verbose off, Logger nil (stderr when enabled)
//   - Ctx = context.Background()
func DefaultOptions() Options {
	return Options{
		Eps:     DefaultEps,
		MaxIter: DefaultMaxIter,
		Workers: DefaultWorkers,
		Verbose: false,
		Logger:  nil,
		Ctx:     context.Background(),
	}
}
