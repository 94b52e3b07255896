// Package gmm - the EM fitting driver.
//
// This file provides the canonical entry point for a full run:
//
//   - Fit: validate inputs once, then alternate E-step / M-step / score
//     until the log-likelihood gain drops to Eps, the iteration budget
//     runs out, or a failure sentinel fires.
//
// Design principles:
//   - Deterministic: no randomness, no time-based behavior; identical
//     inputs and worker counts yield identical traces.
//   - Strict sentinels: only errors from errors.go, wrapped with detail.
//   - No mutable package state: each run owns a fitState accumulator and
//     a single responsibility buffer rewritten in place every iteration.
//   - Monotonicity enforced exactly: any decrease aborts the run; EM
//     guarantees non-decrease, so a drop means the arithmetic went bad.
package gmm

import (
	"context"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"
)

// fitState accumulates the per-run products the driver threads through
// its iterations: the append-only log-likelihood trace and the terminal
// status classification.
type fitState struct {
	trace  []float64
	status Status
}

// step advances one EM iteration: responsibilities for the current
// parameters, a re-estimated parameter set, then a score of the NEW
// parameters appended to the trace. resp and dens are reused buffers
// owned by the driver.
func (st *fitState) step(data []float64, cur Mixture, resp *mat.Dense, dens []float64, workers int) (Mixture, error) {
	if err := estepInto(resp, data, cur, workers); err != nil {
		return Mixture{}, err
	}

	next, err := mstep(data, resp, workers)
	if err != nil {
		return Mixture{}, err
	}

	ll, err := score(data, next, dens)
	if err != nil {
		return Mixture{}, err
	}
	st.trace = append(st.trace, ll)

	return next, nil
}

// Fit estimates mixture parameters for data by EM, starting from init.
//
// Description:
//
//	Each iteration recomputes responsibilities under the current
//	parameters (E-step), re-estimates means, deviations and weights
//	from those responsibilities (M-step), and scores the new
//	parameters. Trace[i] is therefore the log-likelihood of the
//	parameters PRODUCED by iteration i, and the trace must never
//	decrease.
//
// Termination (first matching rule wins, checked from iteration 1 on):
//   - Trace[i] < Trace[i-1]         → ErrMonotonicityViolation (diverged).
//   - Trace[i] − Trace[i-1] ≤ Eps   → StatusConverged.
//   - i == MaxIter−1                → StatusMaxIter; still a valid result.
//
// Convergence needs two scores, so a successful run always performs at
// least two iterations. Options.Ctx is honored between iterations; a
// canceled run returns the wrapped context error.
//
// The returned FitResult carries the final parameters, the
// responsibility matrix of the last completed E-step (computed under
// the previous iteration's parameters, as EM defines it), the full
// trace, the iteration count and the terminal status.
//
// Errors: entry sentinels (ErrBadOptions, ErrNoObservations,
// ErrInvalidParameter) before any work; ErrDegenerateComponent,
// ErrNumericalInstability or ErrMonotonicityViolation if the run goes
// bad mid-flight. On any error the result is nil.
//
// Complexity: O(MaxIter·N·K) time, O(N·K) memory reused across
// iterations.
func Fit(data []float64, init Mixture, opts Options) (*FitResult, error) {
	// Stage 1: entry validation. Nothing below runs on bad input.
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if err := validateData(data); err != nil {
		return nil, err
	}
	if err := ValidateMixture(init); err != nil {
		return nil, err
	}

	// Stage 2: run setup.
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if opts.Verbose && logger == nil {
		logger = log.New(os.Stderr, "", log.Ltime)
	}

	var (
		n    = len(data)
		kk   = init.K()
		resp = mat.NewDense(n, kk, nil) // rewritten by every E-step
		dens = make([]float64, kk)      // scorer scratch row
		cur  = init
		st   = &fitState{trace: make([]float64, 0, opts.MaxIter), status: StatusRunning}
	)
	if opts.Verbose {
		logger.Printf("fitting %d observations with %d components", n, kk)
	}

	// Stage 3: EM iterations.
	var (
		i        int
		ll, prev float64
		err      error
	)
	for i = 0; i < opts.MaxIter; i++ {
		// Honor cancellation and deadlines between iterations.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gmm: fit canceled before iteration %d: %w", i, ctx.Err())
		default:
		}

		cur, err = st.step(data, cur, resp, dens, opts.Workers)
		if err != nil {
			return nil, err
		}
		ll = st.trace[i]
		if opts.Verbose {
			logger.Printf("iter %d: llf=%f", i, ll)
		}

		if i == 0 {
			continue // need two scores before any comparison
		}
		prev = st.trace[i-1]
		if ll < prev {
			st.status = StatusDiverged
			if opts.Verbose {
				logger.Printf("log-likelihood decreased by %f, aborting", prev-ll)
			}

			return nil, fmt.Errorf("%w: iteration %d to %d: %.12f -> %.12f",
				ErrMonotonicityViolation, i-1, i, prev, ll)
		}
		if ll-prev <= opts.Eps {
			st.status = StatusConverged
			if opts.Verbose {
				logger.Printf("converged at iteration %d", i)
			}

			break
		}
	}

	// Stage 4: classify budget exhaustion and assemble the bundle.
	if st.status == StatusRunning {
		st.status = StatusMaxIter
		if opts.Verbose {
			logger.Printf("iteration budget exhausted after %d iterations", len(st.trace))
		}
	}

	return &FitResult{
		Mixture:    cur,
		Resp:       resp,
		Trace:      st.trace,
		Iterations: len(st.trace),
		Status:     st.status,
	}, nil
}
