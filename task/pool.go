package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"

	"github.com/darkedge/FloatMagic/alloc"
)

// Pool lifecycle states.
const (
	poolCreated uint32 = iota
	poolRunning
	poolDestroying
	poolDestroyed
)

// Pool owns the worker goroutines that run task execution phases, and
// publishes completions on the caller-provided channel. Lifecycle bracket:
// [Pool.Init] before any submission, [Pool.Destroy] after the event loop has
// exited, which outlives all outstanding tasks (it drains undelivered
// completions).
type Pool struct {
	logger    *logiface.Logger[logiface.Event]
	allocator alloc.Allocator
	fatalFunc func(*Task, error)
	limiter   *catrate.Limiter
	workers   int
	policy    ErrorPolicy

	state       fastState
	completions chan *Task

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*Task
	stopped bool

	workerWg sync.WaitGroup
	done     chan struct{}
	tasks    sync.Pool
}

// NewPool returns a new pool in the created (uninitialized) state.
func NewPool(options ...PoolOption) (*Pool, error) {
	cfg, err := resolvePoolOptions(options)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		logger:    cfg.logger,
		allocator: cfg.allocator,
		fatalFunc: cfg.fatalFunc,
		limiter:   catrate.NewLimiter(cfg.rateLimits),
		workers:   cfg.workers,
		policy:    cfg.policy,
		done:      make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	p.tasks.New = func() any { return new(Task) }
	return p, nil
}

// Allocator returns the allocator backing typed task payloads. Workers may
// use it strictly for task-private scratch storage that is only published at
// completion delivery.
func (x *Pool) Allocator() alloc.Allocator {
	return x.allocator
}

// Init stores the caller-created completion channel and starts the workers.
// The same channel must be handed to the event loop, the sole consumer.
// Panics on a nil channel; returns ErrAlreadyInitialized or ErrDestroyed
// when called out of sequence.
func (x *Pool) Init(completions chan *Task) error {
	if completions == nil {
		panic(`task: nil completion channel`)
	}
	if !x.state.tryTransition(poolCreated, poolRunning) {
		if x.state.load() == poolRunning {
			return ErrAlreadyInitialized
		}
		return ErrDestroyed
	}
	x.completions = completions
	x.workerWg.Add(x.workers)
	for i := 0; i < x.workers; i++ {
		go x.worker(i)
	}
	x.logger.Debug().
		Int(`workers`, x.workers).
		Str(`policy`, x.policy.String()).
		Log(`pool initialized`)
	return nil
}

// CreateTask returns a zeroed task owned by the pool, for the caller to
// populate and submit. Returns nil before Init or after Destroy.
func (x *Pool) CreateTask() *Task {
	if x.state.load() != poolRunning {
		return nil
	}
	t := x.tasks.Get().(*Task)
	t.pool = x
	return t
}

// Create is the typed form of [Pool.CreateTask]: it additionally allocates a
// pointer-free payload T from the pool's backing allocator, freed when the
// task is released. Returns (nil, nil) when the pool is not running or the
// allocator is exhausted (recoverable).
func Create[T any](p *Pool) (*Task, *T) {
	if p.state.load() != poolRunning {
		return nil, nil
	}
	payload := alloc.New[T](p.allocator)
	if payload == nil {
		return nil, nil
	}
	t := p.CreateTask()
	if t == nil {
		alloc.Free(p.allocator, payload)
		return nil, nil
	}
	t.release = func() { alloc.Free(p.allocator, payload) }
	return t, payload
}

// Submit transfers ownership of t to the pool. The internal queue is
// unbounded, so Submit never blocks. The caller must not touch t again until
// its completion phase has run. Panics on a nil task or nil Execute.
func (x *Pool) Submit(t *Task) error {
	if t == nil {
		panic(`task: nil task`)
	}
	if t.Execute == nil {
		panic(`task: nil execution phase`)
	}
	switch x.state.load() {
	case poolCreated:
		return ErrNotInitialized
	case poolDestroying, poolDestroyed:
		return ErrDestroyed
	}
	if !t.state.tryTransition(uint32(StateCreated), uint32(StateQueued)) {
		return ErrResubmitted
	}
	x.mu.Lock()
	if x.stopped {
		x.mu.Unlock()
		t.state.store(uint32(StateCreated))
		return ErrDestroyed
	}
	x.queue = append(x.queue, t)
	x.mu.Unlock()
	x.cond.Signal()
	return nil
}

// dequeue blocks until a task is available, returning nil once the pool is
// stopped and the queue fully drained.
func (x *Pool) dequeue() *Task {
	x.mu.Lock()
	defer x.mu.Unlock()
	for len(x.queue) == 0 {
		if x.stopped {
			return nil
		}
		x.cond.Wait()
	}
	t := x.queue[0]
	x.queue[0] = nil
	x.queue = x.queue[1:]
	return t
}

func (x *Pool) worker(id int) {
	defer x.workerWg.Done()
	for {
		t := x.dequeue()
		if t == nil {
			return
		}
		x.execute(id, t)
	}
}

func (x *Pool) execute(worker int, t *Task) {
	if !t.state.tryTransition(uint32(StateQueued), uint32(StateExecuting)) {
		panic(`task: dequeued task is not queued`)
	}
	start := time.Now()
	err := runExecute(t)
	t.err = err
	if !t.state.tryTransition(uint32(StateExecuting), uint32(StateCompletionPending)) {
		panic(`task: executing task mutated concurrently`)
	}
	if err != nil {
		switch x.policy {
		case ErrorPolicyReport:
			if _, ok := x.limiter.Allow(t.Name); ok {
				x.logger.Err().
					Err(err).
					Str(`task`, t.Name).
					Int(`worker`, worker).
					Log(`task execution failed`)
			}
		default:
			x.logger.Crit().
				Err(err).
				Str(`task`, t.Name).
				Int(`worker`, worker).
				Log(`fatal task execution failure`)
			x.fatalFunc(t, err)
		}
	} else {
		x.logger.Debug().
			Str(`task`, t.Name).
			Int(`worker`, worker).
			Dur(`elapsed`, time.Since(start)).
			Log(`task executed`)
	}
	// the delivery below is the memory-visibility boundary for OnDone
	x.completions <- t
}

// runExecute isolates the recover, so a panicking execution phase is
// handled under the same policy as a returned error.
func runExecute(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`task: execution phase panicked: %v`, r)
		}
	}()
	return t.Execute()
}

// Destroy stops intake, waits for in-flight executions to finish (or ctx
// expiry), releases undelivered completions without running their completion
// phases, and closes the completion channel. Idempotent; concurrent calls
// wait for the first to finish.
func (x *Pool) Destroy(ctx context.Context) error {
	for {
		switch x.state.load() {
		case poolCreated:
			if x.state.tryTransition(poolCreated, poolDestroyed) {
				close(x.done)
				return nil
			}
		case poolRunning:
			if x.state.tryTransition(poolRunning, poolDestroying) {
				return x.destroy(ctx)
			}
		case poolDestroying:
			select {
			case <-x.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		case poolDestroyed:
			return nil
		}
	}
}

func (x *Pool) destroy(ctx context.Context) error {
	x.mu.Lock()
	x.stopped = true
	x.mu.Unlock()
	x.cond.Broadcast()

	workersDone := make(chan struct{})
	go func() {
		x.workerWg.Wait()
		close(workersDone)
	}()

	// workers may be blocked publishing completions nobody will consume;
	// drain and release them, without running OnDone, until the workers
	// have exited
	dropped := 0
	for {
		select {
		case t := <-x.completions:
			t.discard()
			dropped++
			continue
		case <-workersDone:
		case <-ctx.Done():
			return ctx.Err()
		}
		break
	}
	for {
		select {
		case t := <-x.completions:
			t.discard()
			dropped++
			continue
		default:
		}
		break
	}

	close(x.completions)
	x.state.store(poolDestroyed)
	close(x.done)
	x.logger.Debug().
		Int(`dropped`, dropped).
		Log(`pool destroyed`)
	return nil
}
