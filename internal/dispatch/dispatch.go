// Package dispatch provides the worker pool that runs composite marking
// jobs, with a barrier for epoch synchronization.
//
// The pool is explicitly owned: construct it, share it across sieve
// invocations if desired, and Close it when done. Jobs are infallible
// marking closures over pre-validated indices; once dispatched they run
// to completion and cannot be cancelled. Callers cancel between barrier
// epochs instead.
package dispatch

import (
	"runtime"
	"sync"
)

// Dispatcher runs jobs on a fixed-size pool of workers.
//
// Dispatch and Finish must be called from a single producer goroutine;
// the pool only synchronizes workers against that producer, not
// producers against each other.
type Dispatcher struct {
	jobs    chan func()
	pending sync.WaitGroup
	done    sync.WaitGroup
	workers int
}

// New starts a pool of the given width. If workers <= 0 the pool is
// sized to the available hardware parallelism.
func New(workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	d := &Dispatcher{
		jobs:    make(chan func(), workers),
		workers: workers,
	}
	d.done.Add(workers)
	for range workers {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.done.Done()
	for job := range d.jobs {
		job()
		d.pending.Done()
	}
}

// Workers returns the pool width.
func (d *Dispatcher) Workers() int { return d.workers }

// Dispatch enqueues job. It may block while the queue is saturated.
func (d *Dispatcher) Dispatch(job func()) {
	d.pending.Add(1)
	d.jobs <- job
}

// Finish blocks until every job dispatched before the call has
// completed. The pool stays usable afterwards.
func (d *Dispatcher) Finish() {
	d.pending.Wait()
}

// Close waits for outstanding jobs and stops the workers. Dispatch must
// not be called after Close.
func (d *Dispatcher) Close() {
	d.pending.Wait()
	close(d.jobs)
	d.done.Wait()
}
