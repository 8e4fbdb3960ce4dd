package queue

import (
	"context"
	"sync"
)

// Task is one unit of work executed by the pool.
type Task func(ctx context.Context)

// Pool runs tasks on a bounded number of workers. With a single worker it
// degenerates to strictly ordered sequential execution, which is the
// collection default.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count (minimum 1).
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all tasks and blocks until every task returned. Tasks are
// consumed in submission order; completion order is unspecified when more
// than one worker is configured.
func (p *Pool) Run(ctx context.Context, tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ch := make(chan Task)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for task := range ch {
				task(ctx)
			}
		}()
	}

	for _, task := range tasks {
		ch <- task
	}
	close(ch)
	wg.Wait()
}
