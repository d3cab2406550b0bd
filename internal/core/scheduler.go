package core

import (
	"context"
	"sync"
)

// scheduler runs indexed tasks with at most limit in flight.
// With limit 1 tasks run strictly in index order. Callers write results into
// slot i, so result order never depends on completion order.
type scheduler struct {
	limit int
}

func newScheduler(limit int) scheduler {
	if limit < 1 {
		limit = 1
	}
	return scheduler{limit: limit}
}

// run calls task for each index in [0, n). Once ctx is done no further task starts.
// The returned slice reports which indices ran.
func (s scheduler) run(ctx context.Context, n int, task func(ctx context.Context, i int)) []bool {
	ran := make([]bool, n)
	if n == 0 {
		return ran
	}

	if s.limit == 1 {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				break
			}
			task(ctx, i)
			ran[i] = true
		}
		return ran
	}

	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	workers := s.limit
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					continue // drain
				}
				task(ctx, i)
				ran[i] = true
			}
		}()
	}
	wg.Wait()

	return ran
}
