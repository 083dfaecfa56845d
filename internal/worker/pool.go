package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task carries one unit of work through the pool.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc handles a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency. Each
// task gets an isolated result slot, so workers never share mutable
// state beyond the input slice.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool and returns results in
// input order. On cancellation, tasks that never ran carry the
// context error so callers cannot mistake them for successes.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	processed := make([]bool, len(inputs))
	inputCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = Task[T, R]{
						Input:  inputs[idx],
						Result: result,
						Err:    err,
					}
					processed[idx] = true
					if err != nil {
						log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Job failed")
					}
				}
			}
		}(w)
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()
	if err := ctx.Err(); err != nil {
		for i := range results {
			if !processed[i] {
				results[i] = Task[T, R]{Input: inputs[i], Err: err}
			}
		}
	}
	return results
}
