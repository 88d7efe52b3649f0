// Package parallel provides generic parallel processing utilities.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Config configures parallel execution.
type Config struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: min(runtime.NumCPU(), 8)
	MaxWorkers int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8 // Cap at 8 to avoid excessive overhead
	}
	if workers < 2 {
		workers = 2
	}
	return Config{MaxWorkers: workers}
}

// WithWorkers returns a new config with the specified number of workers.
func (c Config) WithWorkers(n int) Config {
	c.MaxWorkers = n
	return c
}

// Map applies fn to every input on a bounded pool of workers and returns
// the results in input order. The mapping function must be safe to call
// concurrently. The first context cancellation observed is returned; the
// partially filled results are discarded in that case.
func Map[T any, R any](ctx context.Context, cfg Config, inputs []T, fn func(input T) R) ([]R, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = DefaultConfig().MaxWorkers
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]R, len(inputs))
	indexCh := make(chan int, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-indexCh:
					if !ok {
						return
					}
					results[idx] = fn(inputs[idx])
				}
			}
		}()
	}

	// Submit indexes; stop early if the context is cancelled.
	go func() {
		defer close(indexCh)
		for i := range inputs {
			select {
			case <-ctx.Done():
				return
			case indexCh <- i:
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
