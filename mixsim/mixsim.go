// SPDX-License-Identifier: MIT
// Package: unimix/mixsim
//
// mixsim.go — planted-mixture sampling with ground truth.
//
// Design:
//   - Draw is the single public entry point and the only place errors
//     exit; option constructors only record them.
//   - One rand.Source drives every distribution in a fixed order
//     (spreads first, then label/value pairs), so a seed pins the whole
//     sample bit-for-bit.
//   - Sampling is delegated to gonum's distuv; this package only wires
//     parameters and bookkeeping around it.
package mixsim

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/darmolin/unimix/gmm"
)

// Sentinel errors for sample generation.
var (
	// ErrBadShape indicates a non-positive component or observation count.
	ErrBadShape = errors.New("mixsim: component and observation counts must be positive")
	// ErrBadGap indicates a non-positive distance between component means.
	ErrBadGap = errors.New("mixsim: component gap must be positive")
	// ErrBadSigmaRange indicates spread bounds violating 0 < lo ≤ hi.
	ErrBadSigmaRange = errors.New("mixsim: sigma range must satisfy 0 < lo <= hi")
	// ErrBadWeights indicates weights of the wrong length, with negative
	// or non-finite entries, or not summing to 1.
	ErrBadWeights = errors.New("mixsim: weights must be non-negative and sum to 1")
	// ErrComponentIndex indicates a requested component index is out of range.
	ErrComponentIndex = errors.New("mixsim: component index out of range")
)

// weightTol bounds |Σ weights − 1| for user-supplied proportions,
// matching the tolerance gmm applies to mixture weights.
const weightTol = 1e-9

// Sample is one synthetic draw: observations, the true component of
// each observation, and the parameters that generated them.
type Sample struct {
	// X holds the N observations.
	X []float64

	// Label[i] is the index of the component that produced X[i].
	Label []int

	// Mixture is the generating parameter set: means on the gap ladder,
	// spreads from the configured range, and the mixing weights.
	Mixture gmm.Mixture
}

// Draw samples n observations from a planted k-component Gaussian
// mixture. Component j is centered at j·gap with a spread drawn
// uniformly from the configured range; each observation picks its
// component by the mixing weights, then samples that component.
//
// Draws are fully deterministic per seed (seed 0 resolves to a fixed
// default), so fixtures and benchmarks reproduce everywhere.
//
// Errors: ErrBadShape, ErrBadGap, ErrBadSigmaRange, ErrBadWeights.
//
// Complexity: O(N + K) time and space.
func Draw(k, n int, opts ...Option) (*Sample, error) {
	cfg := newSimConfig(opts...)
	if cfg.err != nil {
		return nil, cfg.err
	}
	if k < 1 || n < 1 {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrBadShape, k, n)
	}

	weights, err := resolveWeights(cfg.weights, k)
	if err != nil {
		return nil, err
	}

	seed := cfg.seed
	if seed == 0 {
		seed = defaultSeed
	}
	src := rand.NewSource(uint64(seed))

	// Ground-truth parameters: the mean ladder and per-component spreads.
	truth := gmm.Mixture{
		Mean:   make([]float64, k),
		Std:    make([]float64, k),
		Weight: weights,
	}
	spread := distuv.Uniform{Min: cfg.sigmaLo, Max: cfg.sigmaHi, Src: src}
	for j := 0; j < k; j++ {
		truth.Mean[j] = float64(j) * cfg.gap
		truth.Std[j] = spread.Rand()
	}

	// Observation loop: component by weight, value by component.
	labeler := distuv.NewCategorical(weights, src)
	comps := make([]distuv.Normal, k)
	for j := range comps {
		comps[j] = distuv.Normal{Mu: truth.Mean[j], Sigma: truth.Std[j], Src: src}
	}

	s := &Sample{
		X:       make([]float64, n),
		Label:   make([]int, n),
		Mixture: truth,
	}
	for i := 0; i < n; i++ {
		j := int(labeler.Rand())
		s.Label[i] = j
		s.X[i] = comps[j].Rand()
	}

	return s, nil
}

// resolveWeights returns uniform proportions when w is nil, otherwise
// validates the user-supplied slice against k.
func resolveWeights(w []float64, k int) ([]float64, error) {
	if w == nil {
		uniform := make([]float64, k)
		for j := range uniform {
			uniform[j] = 1 / float64(k)
		}

		return uniform, nil
	}

	if len(w) != k {
		return nil, fmt.Errorf("%w: got %d weights for %d components", ErrBadWeights, len(w), k)
	}
	var sum float64
	for j, wj := range w {
		if !(wj >= 0) || math.IsInf(wj, 0) {
			// !(x >= 0) also rejects NaN.
			return nil, fmt.Errorf("%w: weight %d is %v", ErrBadWeights, j, wj)
		}
		sum += wj
	}
	if math.Abs(sum-1) > weightTol {
		return nil, fmt.Errorf("%w: weights sum to %.12f", ErrBadWeights, sum)
	}

	return w, nil
}

// K returns the number of planted components.
func (s *Sample) K() int { return s.Mixture.K() }

// Proportions returns the empirical label frequencies, the realized
// counterpart of Mixture.Weight.
func (s *Sample) Proportions() []float64 {
	p := make([]float64, s.K())
	for _, j := range s.Label {
		p[j]++
	}
	inv := 1 / float64(len(s.Label))
	for j := range p {
		p[j] *= inv
	}

	return p
}

// ComponentMoments returns the empirical mean and standard deviation of
// the observations labeled j. A component that received no observations
// yields NaN moments, which callers can detect with math.IsNaN.
//
// Complexity: O(N).
func (s *Sample) ComponentMoments(j int) (mean, sd float64, err error) {
	if j < 0 || j >= s.K() {
		return 0, 0, fmt.Errorf("%w: %d of %d", ErrComponentIndex, j, s.K())
	}

	xs := make([]float64, 0, len(s.X))
	for i, lab := range s.Label {
		if lab == j {
			xs = append(xs, s.X[i])
		}
	}

	return stat.Mean(xs, nil), stat.StdDev(xs, nil), nil
}
