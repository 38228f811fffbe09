package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool. Execute must honour ctx.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a Job
type Result interface {
	GetError() error
}

// ProgressFunc is called once per finished job. Calls are serialized.
type ProgressFunc func(done, total int, r Result)

// Pool runs jobs on a fixed number of workers
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers (at least one)
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the worker count
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes every job and returns the results in job order.
// Jobs not yet started when ctx is cancelled are still handed to Execute,
// which is expected to return promptly with ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job, progress ProgressFunc) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	indexes := make(chan int)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				r := jobs[i].Execute(ctx)
				results[i] = r

				mu.Lock()
				done++
				if progress != nil {
					progress(done, len(jobs), r)
				}
				mu.Unlock()
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
