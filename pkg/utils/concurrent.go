package utils

import (
	"context"
	"os"
	"strconv"
	"sync"
)

// DefaultConcurrencyLimit bounds parallel classification work when no
// explicit limit is configured.
const DefaultConcurrencyLimit = 8

// ConcurrencyLimit returns the worker limit from the CLASSIFICO_CONCURRENCY
// environment variable, or DefaultConcurrencyLimit.
func ConcurrencyLimit() int {
	val := os.Getenv("CLASSIFICO_CONCURRENCY")
	if val == "" {
		return DefaultConcurrencyLimit
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit <= 0 {
		return DefaultConcurrencyLimit
	}
	return limit
}

// Worker processes a single item.
type Worker[T any, R any] func(ctx context.Context, item T) (R, error)

// WorkerPool runs a Worker over batches of items with bounded
// concurrency. Each classification call is self-contained and reads
// only snapshot data, so items never share mutable state and can run
// on independent goroutines.
type WorkerPool[T any, R any] struct {
	numWorkers int
	worker     Worker[T, R]
}

// NewWorkerPool creates a worker pool with the given concurrency.
// A non-positive numWorkers falls back to ConcurrencyLimit.
func NewWorkerPool[T any, R any](numWorkers int, worker Worker[T, R]) *WorkerPool[T, R] {
	if numWorkers <= 0 {
		numWorkers = ConcurrencyLimit()
	}
	return &WorkerPool[T, R]{
		numWorkers: numWorkers,
		worker:     worker,
	}
}

// ProcessItems processes items and returns results and errors indexed
// like the input. Panics in workers are recovered and surfaced as
// PanicError for their item only; sibling items are unaffected.
func (wp *WorkerPool[T, R]) ProcessItems(ctx context.Context, items []T) ([]R, []error) {
	if len(items) == 0 {
		return nil, nil
	}

	type indexed struct {
		item  T
		index int
	}

	itemsChan := make(chan indexed, len(items))
	for i, item := range items {
		itemsChan <- indexed{item: item, index: i}
	}
	close(itemsChan)

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	workers := wp.numWorkers
	if workers > len(items) {
		workers = len(items)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case it, ok := <-itemsChan:
					if !ok {
						return
					}
					func() {
						defer RecoverWithCallback(func(err error) {
							errs[it.index] = err
						})
						results[it.index], errs[it.index] = wp.worker(ctx, it.item)
					}()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	wg.Wait()
	return results, errs
}
