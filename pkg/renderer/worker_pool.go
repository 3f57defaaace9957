package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrPoolStopped is returned when work is submitted to a pool that has been shut down
var ErrPoolStopped = errors.New("worker pool stopped")

// Future is the pending result of a submitted task
type Future struct {
	done  chan struct{}
	value int
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve must be called exactly once
func (f *Future) resolve(value int, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed once the task has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task has finished and returns its result
func (f *Future) Wait() (int, error) {
	<-f.done
	return f.value, f.err
}

// task pairs submitted work with the future it resolves
type task struct {
	fn     func() (int, error)
	future *Future
}

// run executes the task, converting a panic into an error on the future
func (t task) run() {
	defer func() {
		if r := recover(); r != nil {
			t.future.resolve(0, fmt.Errorf("task panicked: %v", r))
		}
	}()
	value, err := t.fn()
	t.future.resolve(value, err)
}

// WorkerPool runs submitted tasks on a fixed set of goroutines, taking
// them from an unbounded FIFO queue
type WorkerPool struct {
	mu         sync.Mutex
	cond       *sync.Cond
	queue      []task
	stopped    bool
	numWorkers int
	wg         sync.WaitGroup
}

// DefaultWorkerCount returns half of the available CPUs, at least one
func DefaultWorkerCount() int {
	return max(1, runtime.NumCPU()/2)
}

// maxWorkerCount caps pools at three quarters of the available CPUs
func maxWorkerCount() int {
	return max(1, runtime.NumCPU()*3/4)
}

// NewWorkerPool creates a worker pool and starts its workers. A
// non-positive count selects DefaultWorkerCount, and no pool gets more
// than maxWorkerCount workers.
func NewWorkerPool(numWorkers int) *WorkerPool {
	return newWorkerPool(numWorkers, true)
}

// newWorkerPool is NewWorkerPool with the CPU cap optional
func newWorkerPool(numWorkers int, capped bool) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	if capped {
		numWorkers = min(numWorkers, maxWorkerCount())
	}

	wp := &WorkerPool{numWorkers: numWorkers}
	wp.cond = sync.NewCond(&wp.mu)

	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// SubmitTask queues fn for execution and returns a future for its result
func (wp *WorkerPool) SubmitTask(fn func() (int, error)) (*Future, error) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		return nil, fmt.Errorf("while submitting task: %w", ErrPoolStopped)
	}

	f := newFuture()
	wp.queue = append(wp.queue, task{fn: fn, future: f})
	wp.cond.Signal()
	return f, nil
}

// Shutdown stops accepting tasks, lets the workers drain the queue and
// waits for them to exit. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	wp.stopped = true
	wp.cond.Broadcast()
	wp.mu.Unlock()

	wp.wg.Wait()
}

// worker is the main worker loop
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		wp.mu.Lock()
		for len(wp.queue) == 0 && !wp.stopped {
			wp.cond.Wait()
		}
		if len(wp.queue) == 0 {
			// Stopped and drained
			wp.mu.Unlock()
			return
		}
		t := wp.queue[0]
		wp.queue[0] = task{}
		wp.queue = wp.queue[1:]
		wp.mu.Unlock()

		t.run()
	}
}
