// Package gmm - contiguous-span fan-out shared by the E- and M-steps.
package gmm

import "sync"

// span denotes the half-open index range [a, b) a worker owns.
type span struct {
	a, b int
}

// splitSpans partitions [0, n) into at most `workers` contiguous spans
// of near-equal size, the first n%workers spans one element longer.
// workers ≤ 1 (and n ≤ 1) yields a single span covering everything, so
// callers need no separate serial branch.
//
// Complexity: O(workers).
func splitSpans(n, workers int) []span {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var (
		spans = make([]span, 0, workers)
		size  = n / workers
		rem   = n % workers
		start int
		end   int
		w     int
	)
	for w = 0; w < workers; w++ {
		end = start + size
		if w < rem {
			end++ // spread the remainder over the leading spans
		}
		spans = append(spans, span{a: start, b: end})
		start = end
	}

	return spans
}

// runSpans executes fn over every span and returns the first error in
// span order. Since each fn reports the smallest offending index within
// its span and spans are ordered, the error returned is the one with
// the globally smallest index, matching what a serial sweep would
// report. A single span runs on the calling goroutine with no overhead.
func runSpans(spans []span, fn func(span) error) error {
	if len(spans) == 1 {
		return fn(spans[0])
	}

	var (
		errs = make([]error, len(spans))
		wg   sync.WaitGroup
	)
	for si := range spans {
		wg.Add(1)
		go func(si int) {
			defer wg.Done()
			errs[si] = fn(spans[si])
		}(si)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
