package concurrency

import (
	"context"
	"errors"
	"sync"
)

// WorkerFn handles task index i.
type WorkerFn func(ctx context.Context, i int) error

// Run calls fn for every index in [0, tasks) using at most workers
// goroutines and waits for all of them. Errors from all tasks are joined.
// Remaining tasks are skipped once ctx is cancelled.
func Run(ctx context.Context, workers, tasks int, fn WorkerFn) error {
	if workers <= 0 {
		workers = 1
	}
	if workers > tasks {
		workers = tasks
	}

	jobs := make(chan int)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := fn(ctx, i); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

	for i := 0; i < tasks; i++ {
		if !send(ctx, jobs, i) {
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			break
		}
	}
	close(jobs)
	wg.Wait()
	return errors.Join(errs...)
}

func send(ctx context.Context, jobs chan<- int, i int) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case jobs <- i:
		return true
	case <-ctx.Done():
		return false
	}
}
