// Package unimix fits univariate Gaussian mixture models to one-dimensional
// data with the Expectation-Maximization algorithm.
//
// 🚀 What is unimix?
//
//	A small, deterministic library for soft clustering on the real line:
//		• Density: the Gaussian kernel and mixture density evaluator
//		• E-step: posterior responsibilities with exact unit row sums
//		• M-step: responsibility-weighted means, deviations and weights
//		• Scorer: total observed-data log-likelihood
//		• Driver: the EM loop with trace, convergence and failure states
//		• Sampler: synthetic mixture data with known ground truth (mixsim)
//
// ✨ Why choose unimix?
//
//   - Deterministic: fixed seeds, no global state, reproducible runs
//   - Honest failures: degenerate components and numerical trouble surface
//     as typed errors instead of NaN parameters
//   - Observable: per-iteration log-likelihood trace and optional progress
//     logging
//   - Parallel when asked: identical results at any worker count
//
// Everything lives under two subpackages:
//
//	gmm/    — mixture type, E/M steps, scorer and the Fit driver
//	mixsim/ — seeded samplers for well-separated synthetic mixtures
//
// Quick sketch of one EM iteration:
//
//	data ──E-step──▶ responsibilities ──M-step──▶ new mixture ──score──▶ LL
//
//	repeated until the log-likelihood gain drops below epsilon.
//
// Dive into gmm/doc.go for the fitting contract and mixsim/doc.go for the
// simulation helpers.
//
//	go get github.com/darmolin/unimix/gmm
package unimix
