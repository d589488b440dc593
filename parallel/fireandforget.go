package parallel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Task is a unit of work. index identifies the worker running it, in [0, size).
type Task func(index int) error

type options struct {
	queueMultiplier int
	finish          func(index int) error
}

type Option func(*options)

// WithQueueMultiplier sets the queue capacity to size*m. The default is 2.
func WithQueueMultiplier(m int) Option {
	return func(o *options) {
		if m > 0 {
			o.queueMultiplier = m
		}
	}
}

// WithFinish registers a function each worker runs after the queue is closed.
// It is not run when any task failed.
func WithFinish(finish func(index int) error) Option {
	return func(o *options) {
		o.finish = finish
	}
}

// FireAndForgetIndexed is a fixed pool of workers fed from a bounded queue.
type FireAndForgetIndexed struct {
	size  int
	tasks chan Task
	wg    sync.WaitGroup

	abort   atomic.Bool
	aborted chan struct{}

	mu          sync.Mutex
	first       *TaskError
	nSuppressed int
	finalized   bool
}

// New starts size workers.
func New(size int, opts ...Option) (*FireAndForgetIndexed, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrPoolSize, size)
	}
	o := options{queueMultiplier: 2}
	for _, opt := range opts {
		opt(&o)
	}

	f := &FireAndForgetIndexed{
		size:    size,
		tasks:   make(chan Task, size*o.queueMultiplier),
		aborted: make(chan struct{}),
	}
	f.wg.Add(size)
	for i := 0; i < size; i++ {
		go f.work(i, o.finish)
	}
	return f, nil
}

// Size returns the number of workers.
func (f *FireAndForgetIndexed) Size() int { return f.size }

func (f *FireAndForgetIndexed) work(index int, finish func(int) error) {
	defer f.wg.Done()

	// after an abort keep receiving so blocked producers are released, but
	// run nothing further.
	for task := range f.tasks {
		if f.abort.Load() {
			continue
		}
		if err := run(task, index); err != nil {
			f.fail(index, err)
		}
	}
	if finish == nil || f.abort.Load() {
		return
	}
	if err := run(finish, index); err != nil {
		f.fail(index, err)
	}
}

func run(task func(int) error, index int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(index)
}

func (f *FireAndForgetIndexed) fail(index int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.first == nil {
		f.first = &TaskError{Worker: index, Err: err}
		f.abort.Store(true)
		close(f.aborted)
		return
	}
	f.first.suppressed = multierr.Append(f.first.suppressed, err)
	f.nSuppressed++
}

func (f *FireAndForgetIndexed) failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.first == nil {
		return nil
	}
	return f.first
}

// ProduceWith queues task, blocking while the queue is full. Once any task has
// failed it returns that failure instead of queueing.
func (f *FireAndForgetIndexed) ProduceWith(ctx context.Context, task Task) error {
	f.mu.Lock()
	finalized := f.finalized
	f.mu.Unlock()
	if finalized {
		return ErrFinalized
	}

	if err := f.failure(); err != nil {
		return err
	}
	select {
	case f.tasks <- task:
		return nil
	case <-f.aborted:
		return f.failure()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finalize closes the queue, waits for every worker to stop and returns the
// first task failure, if any. It must be called exactly once, by the producer.
func (f *FireAndForgetIndexed) Finalize() error {
	f.mu.Lock()
	if f.finalized {
		f.mu.Unlock()
		return ErrFinalized
	}
	f.finalized = true
	f.mu.Unlock()

	close(f.tasks)
	f.wg.Wait()
	return f.failure()
}

// Suppressed returns the number of task failures discarded in favour of the
// first.
func (f *FireAndForgetIndexed) Suppressed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nSuppressed
}
