package gmm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// invSqrt2Pi is 1/√(2π), the Gaussian normalization constant.
const invSqrt2Pi = 0.3989422804014327

// NormPDF evaluates the univariate Gaussian density φ(x; mu, sigma).
//
// Description:
//
//	φ(x; μ, σ) = exp(−(x−μ)²/(2σ²)) / (σ·√(2π))
//
// NormPDF is pure and performs no validation: it is the innermost call
// of the EM hot path and is evaluated N·K times per iteration. Callers
// are expected to have validated sigma > 0 at the package boundary.
//
// Numerical behavior:
//   - stable for sigma down to about 1e-3,
//   - far in the tails the exponent underflows and the result is exactly
//     0, which is a valid density value, not an error,
//   - sigma == 0 or NaN inputs propagate non-finite values that the
//     E-step and scorer detect as ErrNumericalInstability.
//
// Complexity: O(1).
func NormPDF(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma

	return invSqrt2Pi / sigma * math.Exp(-0.5*z*z)
}

// MixtureDensity evaluates the mixture density p(x) = Σ_k w_k·φ_k(x).
//
// Like NormPDF it is pure and unvalidated; it shares the accumulation
// order of the E-step normalizer and the scorer, so all three agree to
// the last bit on the same inputs.
//
// Complexity: O(K).
func MixtureDensity(x float64, m Mixture) float64 {
	var sum float64
	for k := range m.Mean {
		sum += m.Weight[k] * NormPDF(x, m.Mean[k], m.Std[k])
	}

	return sum
}

// weightedDensities fills dst[k] = Weight[k]·φ(x; Mean[k], Std[k]) and
// returns the sum of dst, the mixture density at x. dst must have
// length m.K(). This single helper feeds both the E-step (which then
// normalizes dst in place) and the scorer (which only needs the sum),
// keeping the two numerically identical.
//
// Complexity: O(K).
func weightedDensities(dst []float64, x float64, m Mixture) float64 {
	for k := range dst {
		dst[k] = m.Weight[k] * NormPDF(x, m.Mean[k], m.Std[k])
	}

	return floats.Sum(dst)
}
