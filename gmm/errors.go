// Package gmm - sentinel error set.
//
// This file defines ONLY package-level sentinel errors used across the
// EM pipeline. Helpers attach detail (component index, observation index,
// offending values) by wrapping a sentinel with fmt.Errorf("%w: ...") so
// that errors.Is keeps matching the base kind.
package gmm

import "errors"

var (
	// ErrInvalidParameter indicates an entry-validation failure: a mixture
	// with mismatched slice lengths, a non-positive or non-finite standard
	// deviation, a negative weight, or weights that do not sum to one.
	// No fitting work is performed when this is returned.
	ErrInvalidParameter = errors.New("gmm: invalid mixture parameter")

	// ErrNoObservations indicates the data slice is empty.
	ErrNoObservations = errors.New("gmm: data must contain at least one observation")

	// ErrBadOptions indicates an invalid Options combination
	// (negative Eps, MaxIter < 1, negative Workers).
	ErrBadOptions = errors.New("gmm: invalid fit options")

	// ErrDegenerateComponent indicates a component lost all responsibility
	// mass (S_k = Σ_i r_ik is zero), so its parameters cannot be
	// re-estimated. The wrapped detail names the component index.
	ErrDegenerateComponent = errors.New("gmm: component lost all responsibility mass")

	// ErrNumericalInstability indicates a zero, negative or non-finite
	// mixture density at some observation, typically after a component
	// collapsed or parameters drifted out of floating-point range.
	// The wrapped detail names the smallest offending observation index.
	ErrNumericalInstability = errors.New("gmm: non-finite or non-positive mixture density")

	// ErrMonotonicityViolation indicates the log-likelihood decreased
	// between consecutive iterations, which EM forbids in exact
	// arithmetic. The wrapped detail carries both iterations and both
	// values. A run that trips this guard is reported as diverged.
	ErrMonotonicityViolation = errors.New("gmm: log-likelihood decreased between iterations")
)
