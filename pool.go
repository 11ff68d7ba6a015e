package cheatsync

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent fetches so the remote API is not flooded.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the rest of the process.
	cpuDivisor = 2
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// runIndexed runs fn for every index in [0, n) on at most workers
// goroutines. Results are stored by index, so their order never depends
// on completion order. Once ctx is done, remaining jobs get onCancel.
func runIndexed[T any](ctx context.Context, workers, n int, fn func(ctx context.Context, i int) T, onCancel func(i int, err error) T) []T {
	if n == 0 {
		return nil
	}

	concurrency := min(max(workers, MinPoolSize), n)

	results := make([]T, n)
	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = onCancel(idx, err)
					continue
				}
				results[idx] = fn(ctx, idx)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}
