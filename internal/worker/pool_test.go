package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	id  int
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	id        int
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{id: j.id, err: errors.New("job error")}
	}
	return &mockResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.Workers() != 5 {
		t.Errorf("expected 5 workers, got %d", p.Workers())
	}
	if p := NewPool(0); p.Workers() != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.Workers())
	}
	if p := NewPool(-1); p.Workers() != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.Workers())
	}
}

func TestPool_RunKeepsOrder(t *testing.T) {
	var executed int32
	count := 40

	jobs := make([]Job, count)
	for i := range jobs {
		// Later jobs finish first
		jobs[i] = &mockJob{id: i, duration: time.Duration(count-i) * time.Millisecond, executed: &executed}
	}

	results := NewPool(4).Run(context.Background(), jobs, nil)

	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
	for i, r := range results {
		if r.(*mockResult).id != i {
			t.Errorf("result %d belongs to job %d", i, r.(*mockResult).id)
		}
	}
}

func TestPool_ManyJobsDoNotDeadlock(t *testing.T) {
	jobs := make([]Job, 500)
	for i := range jobs {
		jobs[i] = &mockJob{id: i}
	}

	done := make(chan []Result)
	go func() { done <- NewPool(2).Run(context.Background(), jobs, nil) }()

	select {
	case results := <-done:
		if len(results) != 500 {
			t.Errorf("expected 500 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not finish")
	}
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10
	var current int32
	var maxConcurrent int32
	var completed int32
	var mu sync.Mutex

	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = &concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 10 * time.Millisecond,
		}
	}

	NewPool(workers).Run(context.Background(), jobs, nil)

	if atomic.LoadInt32(&completed) != int32(len(jobs)) {
		t.Errorf("expected %d completed jobs, got %d", len(jobs), completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
	if max <= 1 {
		t.Logf("Warning: max concurrency was %d, expected > 1", max)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	jobs := []Job{&mockJob{shouldErr: true}, &mockJob{shouldErr: false}}

	results := NewPool(2).Run(context.Background(), jobs, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected first job to fail")
	}
	if results[1].GetError() != nil {
		t.Errorf("unexpected error: %v", results[1].GetError())
	}
}

func TestPool_Progress(t *testing.T) {
	jobs := make([]Job, 7)
	for i := range jobs {
		jobs[i] = &mockJob{id: i}
	}

	var seen []int
	NewPool(3).Run(context.Background(), jobs, func(done, total int, r Result) {
		if total != 7 {
			t.Errorf("expected total 7, got %d", total)
		}
		seen = append(seen, done)
	})

	if len(seen) != 7 {
		t.Fatalf("expected 7 progress calls, got %d", len(seen))
	}
	for i, d := range seen {
		if d != i+1 {
			t.Errorf("expected progress %d, got %d", i+1, d)
		}
	}
}

func TestPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	jobs := make([]Job, 4)
	for i := range jobs {
		jobs[i] = &mockJob{id: i, duration: time.Second}
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := NewPool(2).Run(ctx, jobs, nil)
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("expected cancellation to stop the run, took %v", time.Since(start))
	}
	for i, r := range results {
		if !errors.Is(r.GetError(), context.Canceled) {
			t.Errorf("job %d: expected context.Canceled, got %v", i, r.GetError())
		}
	}
}

func TestPool_Empty(t *testing.T) {
	if results := NewPool(2).Run(context.Background(), nil, nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
