package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MStep re-estimates mixture parameters from data and a responsibility
// matrix, maximizing the expected complete-data log-likelihood.
//
// Description (per component k, with S_k = Σ_i r_ik):
//
//	μ_k = Σ_i r_ik·x_i / S_k
//	σ_k = √( Σ_i r_ik·(x_i − μ_k)² / S_k )
//	w_k = S_k / N
//
// The deviations feeding σ_k are taken about the NEW mean μ_k, not the
// mean the responsibilities were computed under; using the stale mean
// would break the monotonic-likelihood guarantee of EM.
//
// Errors:
//   - ErrNoObservations     — data is empty.
//   - ErrInvalidParameter   — resp is nil or its shape disagrees with data.
//   - ErrDegenerateComponent — some S_k is zero (or NaN), so component k
//     cannot be re-estimated; the wrapped detail names k.
//
// A component may legitimately come back with σ_k == 0 when all of its
// mass sits on a single point; the collapse is then caught by the next
// E-step as ErrNumericalInstability rather than masked here.
//
// Complexity: O(N·K) time, O(K) extra space.
func MStep(data []float64, resp *mat.Dense) (Mixture, error) {
	if err := validateData(data); err != nil {
		return Mixture{}, err
	}
	if _, err := validateRespShape(resp, len(data)); err != nil {
		return Mixture{}, err
	}

	return mstep(data, resp, 1)
}

// mstep is the trusted-shape core behind MStep and the Fit loop.
// workers > 1 splits components into contiguous spans, one goroutine
// each; every span scans all rows but touches only its own columns, so
// per-component accumulation order matches the serial path exactly and
// the result is bit-identical at any worker count.
func mstep(data []float64, resp *mat.Dense, workers int) (Mixture, error) {
	var (
		n     = len(data)
		_, kk = resp.Dims()
		mass  = make([]float64, kk) // S_k, total responsibility per component
		out   = Mixture{
			Mean:   make([]float64, kk), // accumulates Σ r_ik·x_i, then holds μ_k
			Std:    make([]float64, kk), // accumulates Σ r_ik·(x_i−μ_k)², then holds σ_k
			Weight: make([]float64, kk),
		}
		spans = splitSpans(kk, workers)
	)

	// Stage 1: responsibility mass and weighted sums.
	_ = runSpans(spans, func(s span) error {
		var (
			row []float64
			i   int
			k   int
		)
		for i = 0; i < n; i++ {
			row = resp.RawRowView(i)
			for k = s.a; k < s.b; k++ {
				mass[k] += row[k]
				out.Mean[k] += row[k] * data[i]
			}
		}

		return nil
	})

	// Stage 2: degenerate scan (smallest k first), then finalize means.
	for k := 0; k < kk; k++ {
		if mass[k] <= 0 || math.IsNaN(mass[k]) {
			return Mixture{}, fmt.Errorf("%w: component %d: responsibility mass %v", ErrDegenerateComponent, k, mass[k])
		}
	}
	for k := 0; k < kk; k++ {
		out.Mean[k] /= mass[k]
	}

	// Stage 3: squared deviations about the NEW means.
	_ = runSpans(spans, func(s span) error {
		var (
			row []float64
			d   float64 // x_i − μ_k
			i   int
			k   int
		)
		for i = 0; i < n; i++ {
			row = resp.RawRowView(i)
			for k = s.a; k < s.b; k++ {
				d = data[i] - out.Mean[k]
				out.Std[k] += row[k] * d * d
			}
		}

		return nil
	})

	// Stage 4: finalize deviations and weights.
	for k := 0; k < kk; k++ {
		out.Std[k] = math.Sqrt(out.Std[k] / mass[k])
		out.Weight[k] = mass[k] / float64(n)
	}

	return out, nil
}
