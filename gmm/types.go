// Package gmm defines the mixture parameter set, fit status codes and
// the result bundle returned by Fit.
package gmm

import "gonum.org/v1/gonum/mat"

// Mixture holds the parameters of a univariate Gaussian mixture with
// K components. The three slices are parallel: component k is described
// by Mean[k], Std[k] and Weight[k].
//
// Invariants (checked by ValidateMixture and at every public entry point):
//   - len(Mean) == len(Std) == len(Weight) >= 1
//   - every Std[k] > 0 and finite
//   - every Weight[k] >= 0 and finite
//   - Σ_k Weight[k] == 1 within a small tolerance
type Mixture struct {
	// Mean is the center μ_k of each component.
	Mean []float64

	// Std is the standard deviation σ_k of each component (not variance).
	Std []float64

	// Weight is the mixing proportion w_k of each component.
	Weight []float64
}

// K returns the number of components.
func (m Mixture) K() int { return len(m.Mean) }

// Clone returns a deep copy of m. The copy shares no backing arrays
// with the original, so either side may be mutated independently.
func (m Mixture) Clone() Mixture {
	c := Mixture{
		Mean:   make([]float64, len(m.Mean)),
		Std:    make([]float64, len(m.Std)),
		Weight: make([]float64, len(m.Weight)),
	}
	copy(c.Mean, m.Mean)
	copy(c.Std, m.Std)
	copy(c.Weight, m.Weight)

	return c
}

// Status describes how an EM run terminated.
type Status int

const (
	// StatusRunning is the in-flight state; it never appears in a
	// returned FitResult.
	StatusRunning Status = iota

	// StatusConverged means the log-likelihood gain between two
	// consecutive iterations dropped to Eps or below.
	StatusConverged

	// StatusMaxIter means the iteration budget ran out before
	// convergence. This is a valid outcome, not an error: the result
	// carries the best parameters found so far.
	StatusMaxIter

	// StatusDiverged means the log-likelihood decreased. A diverged run
	// surfaces as ErrMonotonicityViolation rather than a result.
	StatusDiverged
)

// String implements fmt.Stringer for log and test output.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusConverged:
		return "Converged"
	case StatusMaxIter:
		return "MaxIterReached"
	case StatusDiverged:
		return "Diverged"
	default:
		return "Unknown"
	}
}

// FitResult bundles everything a finished EM run produced.
type FitResult struct {
	// Mixture holds the final parameter estimates.
	Mixture Mixture

	// Resp is the N×K responsibility matrix from the last completed
	// E-step: Resp.At(i, k) is the posterior probability that
	// observation i belongs to component k, and every row sums to 1.
	Resp *mat.Dense

	// Trace records the total log-likelihood after each completed
	// iteration: Trace[i] scores the parameters produced by iteration i.
	// It is append-only and non-decreasing.
	Trace []float64

	// Iterations is the number of completed iterations, len(Trace).
	Iterations int

	// Status is the terminal state: StatusConverged or StatusMaxIter.
	Status Status
}
