// Package workerpool runs blocking jobs on a bounded number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrFull is returned when the number of pending jobs reached the queue limit.
	ErrFull = errors.New("worker pool is full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("worker pool is closed")
)

// Pool limits how many jobs run at once. Go never blocks the caller:
// a job waits for a slot in its own goroutine.
type Pool struct {
	sem      *semaphore.Weighted
	maxQueue int64
	pending  atomic.Int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a pool running at most size jobs concurrently with up to maxQueue jobs
// accepted (running plus waiting). Values below 1 are treated as 1; maxQueue below size
// is raised to size.
func New(size, maxQueue int) *Pool {
	if size < 1 {
		size = 1
	}
	if maxQueue < size {
		maxQueue = size
	}
	return &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		maxQueue: int64(maxQueue),
	}
}

// Go schedules task. ctx bounds both the wait for a slot and the task itself.
func (p *Pool) Go(ctx context.Context, task func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.pending.Add(1) > p.maxQueue {
		p.pending.Add(-1)
		return ErrFull
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.pending.Add(-1)

		if err := p.sem.Acquire(ctx, 1); err != nil {
			slog.Warn("job dropped before start", "error", err)
			return
		}
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				slog.Error("job panicked", "panic", r)
			}
		}()
		task(ctx)
	}()
	return nil
}

// Pending returns the number of accepted jobs that have not finished.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Close stops accepting jobs and waits for accepted ones to finish or ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
