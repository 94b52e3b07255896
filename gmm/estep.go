package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// EStep computes the N×K posterior responsibility matrix for data under
// the mixture m.
//
// Description:
//
//	r_ik = w_k·φ(x_i; μ_k, σ_k) / Σ_j w_j·φ(x_i; μ_j, σ_j)
//
// Algorithm Outline (per observation i):
//  1. Fill row i with the K weighted densities w_k·φ_k(x_i).
//  2. Sum the row once; the sum is the mixture density at x_i and the
//     row's only normalizing constant (O(K) per observation, never
//     recomputed per cell).
//  3. Divide the first K−1 entries by the sum; derive the last entry as
//     1 minus the normalized rest, so the row sums to exactly 1.0 in
//     floating point, not just approximately.
//
// Errors:
//   - ErrInvalidParameter  — m violates a Mixture invariant.
//   - ErrNoObservations    — data is empty.
//   - ErrNumericalInstability — some row's mixture density is zero,
//     negative or non-finite; the wrapped detail names the smallest
//     offending observation index.
//
// Complexity: O(N·K) time, O(N·K) memory for the returned matrix.
func EStep(data []float64, m Mixture) (*mat.Dense, error) {
	if err := validateData(data); err != nil {
		return nil, err
	}
	if err := ValidateMixture(m); err != nil {
		return nil, err
	}

	resp := mat.NewDense(len(data), m.K(), nil)
	if err := estepInto(resp, data, m, 1); err != nil {
		return nil, err
	}

	return resp, nil
}

// estepInto writes responsibilities for data under m into resp, reusing
// its backing array. resp must be (len(data) × m.K()); callers on the
// fitting hot path guarantee the shape, so it is not re-checked here.
// workers ≤ 1 runs on the calling goroutine; otherwise rows are split
// into contiguous spans, one goroutine each. Rows are independent, so
// output is bit-identical at any worker count.
func estepInto(resp *mat.Dense, data []float64, m Mixture, workers int) error {
	return runSpans(splitSpans(len(data), workers), func(s span) error {
		return estepSpan(resp, data, m, s)
	})
}

// estepSpan normalizes rows s.a ≤ i < s.b. On a bad normalizer it stops
// at the first (smallest) offending row of the span.
func estepSpan(resp *mat.Dense, data []float64, m Mixture, s span) error {
	var (
		row []float64 // view into resp row i, first densities then responsibilities
		den float64   // row normalizer: mixture density at data[i]
		rem float64   // 1 − Σ of the normalized first K−1 entries
		i   int       // observation index
		k   int       // component index
		kk  = m.K()
	)
	for i = s.a; i < s.b; i++ {
		row = resp.RawRowView(i)
		den = weightedDensities(row, data[i], m)
		if math.IsNaN(den) || math.IsInf(den, 0) || den <= 0 {
			return fmt.Errorf("%w: observation %d: mixture density %v", ErrNumericalInstability, i, den)
		}

		// Normalize the first K−1 entries; the last is 1 minus the rest,
		// which pins the row sum to exactly 1.0.
		rem = 1.0
		for k = 0; k < kk-1; k++ {
			row[k] /= den
			rem -= row[k]
		}
		row[kk-1] = rem
	}

	return nil
}
