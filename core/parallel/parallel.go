// Package parallel splits index ranges across CPU cores.
//
// Small inputs run inline; the split only kicks in above a caller-supplied
// threshold so results for the tiny housing dataset never depend on scheduling.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the row count at or below which work runs sequentially.
const DefaultThreshold = 1000

// chunks returns the [start, end) ranges used to cover items with at most
// one range per CPU core.
func chunks(items int) [][2]int {
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	ranges := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Parallelize executes fn concurrently over disjoint ranges covering [0, items).
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, r := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r[0], r[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) inline when items <= threshold
// and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// ParallelizeErr is the fallible form of ParallelizeWithThreshold.
// When several ranges fail, the error of the lowest range is returned so
// that results are deterministic.
func ParallelizeErr(items int, threshold int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if items <= threshold {
		return fn(0, items)
	}

	ranges := chunks(items)
	errs := make([]error, len(ranges))
	var g errgroup.Group
	for i, r := range ranges {
		g.Go(func() error {
			errs[i] = fn(r[0], r[1])
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
