package gmm

import (
	"fmt"
	"math"
)

// LogLikelihood computes the total observed-data log-likelihood of data
// under the mixture m:
//
//	L = Σ_i log( Σ_k w_k·φ(x_i; μ_k, σ_k) )
//
// The inner sum reuses weightedDensities, the same kernel the E-step
// normalizes rows with, so a score and an E-step over the same inputs
// agree exactly.
//
// Errors:
//   - ErrInvalidParameter  — m violates a Mixture invariant.
//   - ErrNoObservations    — data is empty.
//   - ErrNumericalInstability — a zero, negative or non-finite mixture
//     density at some observation (log would produce −Inf or NaN); the
//     wrapped detail names the smallest such index.
//
// Complexity: O(N·K) time, O(K) scratch space.
func LogLikelihood(data []float64, m Mixture) (float64, error) {
	if err := validateData(data); err != nil {
		return 0, err
	}
	if err := ValidateMixture(m); err != nil {
		return 0, err
	}

	return score(data, m, make([]float64, m.K()))
}

// score is the trusted core behind LogLikelihood and the Fit loop.
// dens is a K-length scratch buffer reused across calls. It always runs
// on the calling goroutine: the observation sum must accumulate in index
// order for traces to be reproducible bit-for-bit at any worker count.
func score(data []float64, m Mixture, dens []float64) (float64, error) {
	var (
		ll  float64
		den float64
	)
	for i, x := range data {
		den = weightedDensities(dens, x, m)
		if math.IsNaN(den) || math.IsInf(den, 0) || den <= 0 {
			return 0, fmt.Errorf("%w: observation %d: mixture density %v", ErrNumericalInstability, i, den)
		}
		ll += math.Log(den)
	}

	return ll, nil
}
