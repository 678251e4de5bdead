package task

// Task is a unit of work with a two-phase contract. The creator populates
// Execute (and optionally OnDone and Name), submits via [Pool.Submit], and
// must not touch the task again until OnDone has run. The execution phase
// has exclusive access to everything the task references; the completion
// channel re-establishes memory visibility for the completion phase.
type Task struct {
	// Execute is the off-thread phase, run by exactly one worker, exactly
	// once. A non-nil error is handled per the pool's error policy; under
	// the default fatal policy it terminates the process.
	Execute func() error

	// OnDone is the completion phase, run exactly once, strictly after
	// Execute returns, only on the event loop goroutine, never concurrently
	// with other completion phases. May be nil. The task is released when
	// it returns.
	OnDone func(*Resources)

	// Name annotates the task in logs, and keys error rate limiting under
	// the report policy.
	Name string

	state   fastState
	err     error
	release func()
	pool    *Pool
}

// State returns the task's current lifecycle state.
func (x *Task) State() TaskState {
	return TaskState(x.state.load())
}

// Err returns the error recorded by the execution phase. It is only
// meaningful after completion delivery; under the default fatal policy the
// process terminates before a failed task is delivered.
func (x *Task) Err() error {
	return x.err
}

// End runs the completion phase and releases the task, returning ownership
// of anything the execution phase produced to the caller's goroutine. It is
// called by the event loop, exactly once per delivered completion. Panics if
// the task is not pending completion.
func (x *Task) End(r *Resources) {
	if !x.state.tryTransition(uint32(StateCompletionPending), uint32(StateCompleted)) {
		panic(`task: End on a task that is not pending completion`)
	}
	if x.OnDone != nil {
		x.OnDone(r)
	}
	x.reclaim()
}

// discard releases the task without running the completion phase, for
// completions left undelivered at pool teardown.
func (x *Task) discard() {
	x.state.store(uint32(StateCompleted))
	x.reclaim()
}

func (x *Task) reclaim() {
	pool := x.pool
	if x.release != nil {
		x.release()
	}
	*x = Task{}
	if pool != nil {
		pool.tasks.Put(x)
	}
}
