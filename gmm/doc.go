// Package gmm fits univariate Gaussian mixture models with the
// Expectation-Maximization (EM) algorithm.
//
// 🚀 What is a Gaussian mixture?
//
//	A weighted sum of K normal densities on the real line:
//	  p(x) = Σ_k w_k · φ(x; μ_k, σ_k),  Σ_k w_k = 1
//	EM alternates soft assignment and re-estimation to find parameters
//	that (locally) maximize the log-likelihood of observed data. It is
//	the standard tool for:
//	  • Soft 1-D clustering (each point belongs fractionally to each mode)
//	  • Density estimation for multimodal measurements
//	  • Separating overlapping signal populations
//
// ✨ Key features:
//   - exact unit row sums: the last responsibility is derived by
//     subtraction, so every row of the E-step matrix sums to exactly 1
//   - strict monotonicity guard: any log-likelihood decrease aborts the
//     run with ErrMonotonicityViolation instead of drifting silently
//   - typed failure modes: degenerate components and numerical trouble
//     surface as sentinel errors, never as NaN parameters
//   - per-iteration log-likelihood trace plus optional progress logging
//   - optional worker pool with results identical to the serial path
//
// ⚙️ Usage:
//
//	import "github.com/darmolin/unimix/gmm"
//
//	init := gmm.Mixture{
//	  Mean:   []float64{-2, 2},
//	  Std:    []float64{1, 1},
//	  Weight: []float64{0.5, 0.5},
//	}
//
//	opts := gmm.DefaultOptions() // Eps=0.01, MaxIter=10, serial
//	opts.MaxIter = 200
//
//	res, err := gmm.Fit(data, init, opts)
//	if err != nil {
//	  // handle ErrInvalidParameter, ErrDegenerateComponent, ...
//	}
//	fmt.Println(res.Status, res.Mixture.Mean)
//
// Performance (N observations, K components, T iterations):
//
//   - Time:   O(T·N·K)
//   - Memory: O(N·K) for the responsibility matrix, reused across iterations
//
// See example_test.go for runnable scenarios and the mixsim package for
// seeded synthetic data with known ground truth.
package gmm
