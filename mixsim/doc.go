// SPDX-License-Identifier: MIT

// Package mixsim draws synthetic univariate Gaussian-mixture samples
// with known ground truth, for exercising and benchmarking mixture
// fitting.
//
// 🚀 What is mixsim?
//
//	A seeded generator of "planted" mixtures: you choose K and N, it
//	lays component means on a ladder (0, gap, 2·gap, …), draws each
//	component's spread from a configurable range, assigns every
//	observation a component by the mixing weights, and samples the
//	value from that component. The returned Sample carries the data,
//	the true label of every observation, and the generating Mixture,
//	so a fit can be judged against what actually produced the data.
//
// ✨ Key features:
//   - deterministic: same seed ⇒ identical sample, on every platform;
//     seed 0 maps to a fixed default seed, never to the clock
//   - well-separated by construction: the mean ladder keeps components
//     apart, so recovery is a matter of correctness, not luck
//   - ground truth included: labels, proportions and per-component
//     empirical moments for direct comparison with fitted parameters
//
// ⚙️ Usage:
//
//	import "github.com/darmolin/unimix/mixsim"
//
//	s, err := mixsim.Draw(3, 300,
//	  mixsim.WithSeed(7),
//	  mixsim.WithGap(6),
//	  mixsim.WithSigmaRange(0.5, 1.5),
//	)
//	if err != nil { ... }
//	res, err := gmm.Fit(s.X, someInit, gmm.DefaultOptions())
//	// compare res.Mixture against s.Mixture
//
// Complexity: O(N + K) per draw.
package mixsim
