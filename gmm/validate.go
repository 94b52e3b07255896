// Package gmm - entry validation shared by EStep/MStep/LogLikelihood/Fit.
//
// This file contains small, tight helpers that:
//  1. Validate Options combinations (Eps, MaxIter, Workers bounds).
//  2. Validate mixture parameter sets (shape, positivity, finiteness, weight sum).
//  3. Validate observation slices (non-emptiness).
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only sentinels from errors.go,
//     wrapped with fmt.Errorf("%w: detail") so errors.Is keeps matching.
//   - Validation happens once per public call; the iteration hot path
//     trusts its own intermediate products.
package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// weightSumTol bounds |Σ_k Weight[k] − 1| at entry. It is a structural
// tolerance for user-built mixtures and is independent from Options.Eps
// (which governs convergence of the log-likelihood).
const weightSumTol = 1e-9

// ValidateMixture checks every Mixture invariant and returns nil when m
// is a usable parameter set.
//
// Contract:
//   - len(Mean) == len(Std) == len(Weight) >= 1,
//   - every entry finite; Std[k] > 0; Weight[k] >= 0,
//   - |Σ Weight − 1| ≤ 1e-9.
//
// All violations wrap ErrInvalidParameter with the offending component
// index or the offending sum.
//
// Complexity: O(K) time, O(1) space.
func ValidateMixture(m Mixture) error {
	// Stage 1: shape.
	k := len(m.Mean)
	if k == 0 {
		return fmt.Errorf("%w: mixture must have at least one component", ErrInvalidParameter)
	}
	if len(m.Std) != k || len(m.Weight) != k {
		return fmt.Errorf("%w: parallel slices disagree: %d means, %d stds, %d weights",
			ErrInvalidParameter, k, len(m.Std), len(m.Weight))
	}

	// Stage 2: per-component values.
	var sum float64
	for j := 0; j < k; j++ {
		if math.IsNaN(m.Mean[j]) || math.IsInf(m.Mean[j], 0) {
			return fmt.Errorf("%w: component %d: mean %v is not finite", ErrInvalidParameter, j, m.Mean[j])
		}
		if !(m.Std[j] > 0) || math.IsInf(m.Std[j], 0) {
			// !(x > 0) also rejects NaN.
			return fmt.Errorf("%w: component %d: std %v, want a finite positive value", ErrInvalidParameter, j, m.Std[j])
		}
		if !(m.Weight[j] >= 0) || math.IsInf(m.Weight[j], 0) {
			return fmt.Errorf("%w: component %d: weight %v, want a finite non-negative value", ErrInvalidParameter, j, m.Weight[j])
		}
		sum += m.Weight[j]
	}

	// Stage 3: weight normalization.
	if math.Abs(sum-1) > weightSumTol {
		return fmt.Errorf("%w: weights sum to %.12f, want 1", ErrInvalidParameter, sum)
	}

	return nil
}

// validateData rejects empty observation slices. Non-finite observations
// are deliberately NOT screened here: they surface from the E-step as
// ErrNumericalInstability with the exact row index, which is the more
// useful report and keeps entry validation O(1).
func validateData(data []float64) error {
	if len(data) == 0 {
		return ErrNoObservations
	}

	return nil
}

// validateOptions checks internal consistency of Options without
// referencing data or mixtures.
//
// Contract:
//   - Eps >= 0 (a negative threshold could never be met),
//   - MaxIter >= 1 (zero iterations would fit nothing),
//   - Workers >= 0 (0 and 1 both mean serial).
//
// Complexity: O(1).
func validateOptions(opts Options) error {
	if opts.Eps < 0 || math.IsNaN(opts.Eps) {
		return fmt.Errorf("%w: Eps must be non-negative, got %v", ErrBadOptions, opts.Eps)
	}
	if opts.MaxIter < 1 {
		return fmt.Errorf("%w: MaxIter must be at least 1, got %d", ErrBadOptions, opts.MaxIter)
	}
	if opts.Workers < 0 {
		return fmt.Errorf("%w: Workers must be non-negative, got %d", ErrBadOptions, opts.Workers)
	}

	return nil
}

// validateRespShape checks that resp is a usable responsibility matrix
// for n observations: non-nil, exactly n rows, K >= 1 columns.
// It returns K on success.
//
// Complexity: O(1).
func validateRespShape(resp *mat.Dense, n int) (int, error) {
	if resp == nil {
		return 0, fmt.Errorf("%w: responsibility matrix is nil", ErrInvalidParameter)
	}
	rows, cols := resp.Dims()
	if rows != n {
		return 0, fmt.Errorf("%w: responsibility matrix has %d rows for %d observations", ErrInvalidParameter, rows, n)
	}
	if cols < 1 {
		return 0, fmt.Errorf("%w: responsibility matrix must have at least one column", ErrInvalidParameter)
	}

	return cols, nil
}
