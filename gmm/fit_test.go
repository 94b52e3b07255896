// Package gmm_test exercises the Fit driver via the public API.
// Focus: termination semantics (converged / budget / diverged), trace
// monotonicity, determinism across worker counts, typed failure paths,
// and parameter recovery on planted mixtures.
package gmm_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"slices"
	"sort"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/darmolin/unimix/gmm"
	"github.com/darmolin/unimix/mixsim"
)

// -----------------------------------------------------------------------------
// Helpers (minimal, shared fixtures)
// -----------------------------------------------------------------------------

// twoTightClusters returns six observations in two well separated triples
// and an initial guess centered on them. The very first iteration lands on
// the cluster moments and the second reproduces them bit for bit, so the
// run converges on the second score with an exactly flat trace tail.
func twoTightClusters() ([]float64, gmm.Mixture) {
	data := []float64{-4.4, -4.0, -3.6, 3.6, 4.0, 4.4}
	init := gmm.Mixture{
		Mean:   []float64{-4, 4},
		Std:    []float64{0.4, 0.4},
		Weight: []float64{0.5, 0.5},
	}

	return data, init
}

// momentInit spreads k components across the observed range: means at the
// minimum, the midpoint(s) and the maximum, a broad common deviation, and
// uniform weights. Deterministic in the data alone.
func momentInit(data []float64, k int) gmm.Mixture {
	var (
		lo   = floats.Min(data)
		hi   = floats.Max(data)
		init = gmm.Mixture{
			Mean:   make([]float64, k),
			Std:    make([]float64, k),
			Weight: make([]float64, k),
		}
	)
	for j := 0; j < k; j++ {
		frac := 0.0
		if k > 1 {
			frac = float64(j) / float64(k-1)
		}
		init.Mean[j] = lo + frac*(hi-lo)
		init.Std[j] = 2.0
		init.Weight[j] = 1 / float64(k)
	}

	return init
}

// sortByMean reorders a mixture's components by ascending mean, keeping
// each component's deviation and weight attached to it.
func sortByMean(m gmm.Mixture) gmm.Mixture {
	var (
		c   = m.Clone()
		idx = make([]int, m.K())
	)
	for j := range idx {
		idx[j] = j
	}
	sort.Slice(idx, func(a, b int) bool { return m.Mean[idx[a]] < m.Mean[idx[b]] })
	for j, src := range idx {
		c.Mean[j] = m.Mean[src]
		c.Std[j] = m.Std[src]
		c.Weight[j] = m.Weight[src]
	}

	return c
}

// -----------------------------------------------------------------------------
// 1) Medium - separated clusters: converge in two iterations, exact moments.
// -----------------------------------------------------------------------------

func TestFit_SeparatedClusters_ConvergesToMoments(t *testing.T) {
	data, init := twoTightClusters()

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Status != gmm.StatusConverged {
		t.Fatalf("status = %v, want %v", res.Status, gmm.StatusConverged)
	}
	if res.Iterations != 2 || len(res.Trace) != 2 {
		t.Fatalf("iterations = %d, len(trace) = %d, want 2 and 2", res.Iterations, len(res.Trace))
	}
	// The second iteration reproduces the first's parameters exactly, so
	// the two scores must agree to the last bit.
	if res.Trace[0] != res.Trace[1] {
		t.Fatalf("trace not flat at the fixed point: %.17g vs %.17g", res.Trace[0], res.Trace[1])
	}

	// Cluster moments: means ±4 and weights ½ are exact in floating point.
	if res.Mixture.Mean[0] != -4 || res.Mixture.Mean[1] != 4 {
		t.Fatalf("means = %v, want [-4 4]", res.Mixture.Mean)
	}
	if res.Mixture.Weight[0] != 0.5 || res.Mixture.Weight[1] != 0.5 {
		t.Fatalf("weights = %v, want [0.5 0.5]", res.Mixture.Weight)
	}
	wantStd := math.Sqrt(0.32 / 3) // population deviation of {-0.4, 0, +0.4}
	for j, sd := range res.Mixture.Std {
		if math.Abs(sd-wantStd) > 1e-12 {
			t.Fatalf("std[%d] = %.17g, want %.17g", j, sd, wantStd)
		}
	}

	// Every responsibility row sums to exactly 1.0, not approximately.
	n, _ := res.Resp.Dims()
	for i := 0; i < n; i++ {
		row := res.Resp.RawRowView(i)
		if s := row[0] + row[1]; s != 1.0 {
			t.Fatalf("row %d sums to %.17g, want exactly 1", i, s)
		}
	}
}

// -----------------------------------------------------------------------------
// 2) Medium - K=1 closed form: sample moments in exactly two iterations.
// -----------------------------------------------------------------------------

func TestFit_SingleComponent_ClosedForm(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9} // mean 5, population sd 2
	init := gmm.Mixture{Mean: []float64{0}, Std: []float64{10}, Weight: []float64{1}}

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Status != gmm.StatusConverged || res.Iterations != 2 {
		t.Fatalf("status = %v after %d iterations, want Converged after 2", res.Status, res.Iterations)
	}
	if res.Mixture.Mean[0] != 5 || res.Mixture.Std[0] != 2 || res.Mixture.Weight[0] != 1 {
		t.Fatalf("fit = (μ %.17g, σ %.17g, w %.17g), want exactly (5, 2, 1)",
			res.Mixture.Mean[0], res.Mixture.Std[0], res.Mixture.Weight[0])
	}
	if res.Trace[0] != res.Trace[1] {
		t.Fatalf("single-component trace must be flat: %.17g vs %.17g", res.Trace[0], res.Trace[1])
	}

	// With one component every responsibility is exactly 1, so the score is
	// the plain log-density sum.
	var want float64
	for _, x := range data {
		want += math.Log(gmm.NormPDF(x, 5, 2))
	}
	if res.Trace[1] != want {
		t.Fatalf("final score = %.17g, want %.17g", res.Trace[1], want)
	}
}

// -----------------------------------------------------------------------------
// 3) Medium - recovery: planted 3-component mixtures across 20 seeds.
// -----------------------------------------------------------------------------

func TestFit_RecoversPlantedParameters(t *testing.T) {
	const (
		k          = 3
		n          = 300
		seeds      = 20
		minSuccess = 19
		meanTol    = 0.5
		weightTol  = 0.05
	)

	success := 0
	for seed := int64(1); seed <= seeds; seed++ {
		s, err := mixsim.Draw(k, n,
			mixsim.WithSeed(seed),
			mixsim.WithGap(6),
			mixsim.WithSigmaRange(0.8, 1.2),
		)
		if err != nil {
			t.Fatalf("seed %d: Draw failed: %v", seed, err)
		}

		opts := gmm.DefaultOptions()
		opts.Eps = 1e-3
		opts.MaxIter = 1000

		res, err := gmm.Fit(s.X, momentInit(s.X, k), opts)
		if err != nil || res.Status != gmm.StatusConverged {
			continue
		}

		// Truth means sit on an ascending ladder; align components by mean
		// and compare against the planted centers and realized proportions.
		got := sortByMean(res.Mixture)
		props := s.Proportions()
		ok := true
		for j := 0; j < k; j++ {
			if math.Abs(got.Mean[j]-s.Mixture.Mean[j]) > meanTol {
				ok = false
			}
			if math.Abs(got.Weight[j]-props[j]) > weightTol {
				ok = false
			}
		}
		if ok {
			success++
		}
	}

	if success < minSuccess {
		t.Fatalf("recovered planted parameters on %d/%d seeds, want at least %d", success, seeds, minSuccess)
	}
}

// -----------------------------------------------------------------------------
// 4) Validation - entry errors: typed sentinels, nil result, no work done.
// -----------------------------------------------------------------------------

func TestFit_EntryValidation(t *testing.T) {
	data, init := twoTightClusters()

	res, err := gmm.Fit(nil, init, gmm.DefaultOptions())
	if !errors.Is(err, gmm.ErrNoObservations) || res != nil {
		t.Fatalf("empty data: err = %v, res = %v, want ErrNoObservations and nil", err, res)
	}

	bad := init.Clone()
	bad.Weight = []float64{0.45, 0.45}
	res, err = gmm.Fit(data, bad, gmm.DefaultOptions())
	if !errors.Is(err, gmm.ErrInvalidParameter) || res != nil {
		t.Fatalf("weights 0.9: err = %v, res = %v, want ErrInvalidParameter and nil", err, res)
	}

	for _, tc := range []struct {
		name   string
		mutate func(*gmm.Options)
	}{
		{"negative eps", func(o *gmm.Options) { o.Eps = -1 }},
		{"NaN eps", func(o *gmm.Options) { o.Eps = math.NaN() }},
		{"zero budget", func(o *gmm.Options) { o.MaxIter = 0 }},
		{"negative workers", func(o *gmm.Options) { o.Workers = -1 }},
	} {
		opts := gmm.DefaultOptions()
		tc.mutate(&opts)
		res, err = gmm.Fit(data, init, opts)
		if !errors.Is(err, gmm.ErrBadOptions) || res != nil {
			t.Fatalf("%s: err = %v, res = %v, want ErrBadOptions and nil", tc.name, err, res)
		}
	}
}

// -----------------------------------------------------------------------------
// 5) Validation - iteration budget: exhaustion is a result, not an error.
// -----------------------------------------------------------------------------

func TestFit_MaxIterBudget(t *testing.T) {
	data, init := twoTightClusters()

	opts := gmm.DefaultOptions()
	opts.MaxIter = 1
	res, err := gmm.Fit(data, init, opts)
	if err != nil {
		t.Fatalf("budget-capped Fit failed: %v", err)
	}
	if res.Status != gmm.StatusMaxIter {
		t.Fatalf("status = %v, want %v", res.Status, gmm.StatusMaxIter)
	}
	if res.Iterations != 1 || len(res.Trace) != 1 {
		t.Fatalf("iterations = %d, len(trace) = %d, want 1 and 1", res.Iterations, len(res.Trace))
	}

	// Eps = 0 demands an exactly flat step; the fixed point delivers one.
	opts = gmm.DefaultOptions()
	opts.Eps = 0
	res, err = gmm.Fit(data, init, opts)
	if err != nil {
		t.Fatalf("eps=0 Fit failed: %v", err)
	}
	if res.Status != gmm.StatusConverged || res.Iterations != 2 {
		t.Fatalf("eps=0: status = %v after %d iterations, want Converged after 2", res.Status, res.Iterations)
	}
}

// -----------------------------------------------------------------------------
// 6) Validation - mid-flight failures: instability and degeneracy sentinels.
// -----------------------------------------------------------------------------

func TestFit_NumericalInstability(t *testing.T) {
	// A tiny deviation far from every observation underflows all densities
	// to zero on the very first E-step.
	data := []float64{5, 6, 7}
	init := gmm.Mixture{Mean: []float64{0}, Std: []float64{1e-3}, Weight: []float64{1}}

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if !errors.Is(err, gmm.ErrNumericalInstability) || res != nil {
		t.Fatalf("err = %v, res = %v, want ErrNumericalInstability and nil", err, res)
	}
}

func TestFit_DegenerateComponent(t *testing.T) {
	// A zero mixing weight passes entry validation but starves component 0
	// of responsibility mass in the first M-step.
	data := []float64{1, 2, 3}
	init := gmm.Mixture{Mean: []float64{0, 0}, Std: []float64{1, 1}, Weight: []float64{0, 1}}

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if !errors.Is(err, gmm.ErrDegenerateComponent) || res != nil {
		t.Fatalf("err = %v, res = %v, want ErrDegenerateComponent and nil", err, res)
	}
	if !strings.Contains(err.Error(), "component 0") {
		t.Fatalf("error must name the starved component: %v", err)
	}
}

// -----------------------------------------------------------------------------
// 7) Special - worker counts must not change a single bit of the result.
// -----------------------------------------------------------------------------

func TestFit_WorkerInvariance(t *testing.T) {
	s, err := mixsim.Draw(3, 120, mixsim.WithSeed(7), mixsim.WithSigmaRange(0.8, 1.2))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	init := momentInit(s.X, 3)

	runWith := func(workers int) *gmm.FitResult {
		opts := gmm.DefaultOptions()
		opts.Eps = 1e-3
		opts.MaxIter = 200
		opts.Workers = workers
		res, err := gmm.Fit(s.X, init, opts)
		if err != nil {
			t.Fatalf("workers=%d: Fit failed: %v", workers, err)
		}

		return res
	}

	base := runWith(1)
	for _, workers := range []int{2, 4, 32} {
		res := runWith(workers)
		if res.Status != base.Status || res.Iterations != base.Iterations {
			t.Fatalf("workers=%d: terminal state (%v, %d) differs from serial (%v, %d)",
				workers, res.Status, res.Iterations, base.Status, base.Iterations)
		}
		if !slices.Equal(res.Trace, base.Trace) {
			t.Fatalf("workers=%d: trace differs from serial run", workers)
		}
		if !slices.Equal(res.Mixture.Mean, base.Mixture.Mean) ||
			!slices.Equal(res.Mixture.Std, base.Mixture.Std) ||
			!slices.Equal(res.Mixture.Weight, base.Mixture.Weight) {
			t.Fatalf("workers=%d: parameters differ from serial run", workers)
		}
		if !mat.Equal(res.Resp, base.Resp) {
			t.Fatalf("workers=%d: responsibility matrix differs from serial run", workers)
		}
	}
}

// -----------------------------------------------------------------------------
// 8) Special - cancellation: a done context stops the run with its error.
// -----------------------------------------------------------------------------

func TestFit_ContextCanceled(t *testing.T) {
	data, init := twoTightClusters()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := gmm.DefaultOptions()
	opts.Ctx = ctx
	res, err := gmm.Fit(data, init, opts)
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("err = %v, res = %v, want context.Canceled and nil", err, res)
	}
}

// -----------------------------------------------------------------------------
// 9) Special - verbosity: progress lines go to the logger, silence otherwise.
// -----------------------------------------------------------------------------

func TestFit_VerboseLogging(t *testing.T) {
	data, init := twoTightClusters()

	var buf bytes.Buffer
	opts := gmm.DefaultOptions()
	opts.Verbose = true
	opts.Logger = log.New(&buf, "", 0)
	if _, err := gmm.Fit(data, init, opts); err != nil {
		t.Fatalf("verbose Fit failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"fitting 6 observations with 2 components",
		"llf=",
		"converged at iteration 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("verbose output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	opts.Verbose = false
	if _, err := gmm.Fit(data, init, opts); err != nil {
		t.Fatalf("silent Fit failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("silent run wrote to the logger:\n%s", buf.String())
	}
}

// -----------------------------------------------------------------------------
// 10) Special - result coherence: Resp and Mixture came from the same step.
// -----------------------------------------------------------------------------

func TestFit_ResultRoundTrip(t *testing.T) {
	data, init := twoTightClusters()

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Re-running the M-step on the returned responsibilities must rebuild
	// the returned parameters exactly: they are one computation apart.
	re, err := gmm.MStep(data, res.Resp)
	if err != nil {
		t.Fatalf("MStep on returned responsibilities failed: %v", err)
	}
	if !slices.Equal(re.Mean, res.Mixture.Mean) ||
		!slices.Equal(re.Std, res.Mixture.Std) ||
		!slices.Equal(re.Weight, res.Mixture.Weight) {
		t.Fatalf("MStep(data, res.Resp) = %+v, want the returned mixture %+v", re, res.Mixture)
	}
}

// -----------------------------------------------------------------------------
// 11) Special - trace discipline: strictly rising gains until the eps gate.
// -----------------------------------------------------------------------------

func TestFit_TraceMonotoneUntilEps(t *testing.T) {
	s, err := mixsim.Draw(3, 200, mixsim.WithSeed(11), mixsim.WithGap(3))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	opts := gmm.DefaultOptions()
	opts.Eps = 1e-6
	opts.MaxIter = 1000
	res, err := gmm.Fit(s.X, momentInit(s.X, 3), opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Status != gmm.StatusConverged {
		t.Fatalf("status = %v, want %v", res.Status, gmm.StatusConverged)
	}
	if res.Iterations < 2 || res.Iterations != len(res.Trace) {
		t.Fatalf("iterations = %d, len(trace) = %d, want equal and at least 2", res.Iterations, len(res.Trace))
	}

	last := len(res.Trace) - 1
	for i := 1; i <= last; i++ {
		gain := res.Trace[i] - res.Trace[i-1]
		if gain < 0 {
			t.Fatalf("trace decreased at %d: %.17g -> %.17g", i, res.Trace[i-1], res.Trace[i])
		}
		// Every gain before the last must exceed Eps, otherwise the run
		// would have stopped there.
		if i < last && gain <= opts.Eps {
			t.Fatalf("gain %.17g at iteration %d is within Eps yet the run continued", gain, i)
		}
	}
	if final := res.Trace[last] - res.Trace[last-1]; final > opts.Eps {
		t.Fatalf("final gain %.17g exceeds Eps %.17g", final, opts.Eps)
	}
}

// -----------------------------------------------------------------------------
// 12) Special - identical components: a fused start stays fused, never NaN.
// -----------------------------------------------------------------------------

func TestFit_IdenticalComponentsStayFused(t *testing.T) {
	data := []float64{-1, 0, 1, 2}
	init := gmm.Mixture{Mean: []float64{0, 0}, Std: []float64{1, 1}, Weight: []float64{0.5, 0.5}}

	res, err := gmm.Fit(data, init, gmm.DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Status != gmm.StatusConverged || res.Iterations != 2 {
		t.Fatalf("status = %v after %d iterations, want Converged after 2", res.Status, res.Iterations)
	}

	// Indistinguishable components split every observation exactly in half
	// and re-estimate to the same sample moments on both sides.
	if res.Mixture.Mean[0] != res.Mixture.Mean[1] || res.Mixture.Std[0] != res.Mixture.Std[1] {
		t.Fatalf("components diverged from a fused start: %+v", res.Mixture)
	}
	if res.Mixture.Mean[0] != 0.5 {
		t.Fatalf("fused mean = %.17g, want the sample mean 0.5", res.Mixture.Mean[0])
	}
	if want := math.Sqrt(1.25); res.Mixture.Std[0] != want {
		t.Fatalf("fused std = %.17g, want the sample deviation %.17g", res.Mixture.Std[0], want)
	}
	if res.Mixture.Weight[0] != 0.5 || res.Mixture.Weight[1] != 0.5 {
		t.Fatalf("fused weights = %v, want [0.5 0.5]", res.Mixture.Weight)
	}
}
