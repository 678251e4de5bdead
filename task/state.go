package task

import "sync/atomic"

// TaskState identifies where a task is in its lifecycle.
//
// State machine:
//
//	StateCreated → StateQueued              [Submit]
//	StateQueued → StateExecuting            [worker dequeue]
//	StateExecuting → StateCompletionPending [execution phase returned]
//	StateCompletionPending → StateCompleted [End, on the loop goroutine]
//	StateCompleted → (released)
//
// Transitions use CAS; there are no backward edges.
type TaskState uint32

const (
	// StateCreated indicates the task has been created but not submitted.
	StateCreated TaskState = iota
	// StateQueued indicates the pool has taken ownership of the task.
	StateQueued
	// StateExecuting indicates a worker is running the execution phase.
	StateExecuting
	// StateCompletionPending indicates the execution phase has finished and
	// a completion notification has been (or is being) posted.
	StateCompletionPending
	// StateCompleted indicates the completion phase has run and the task is
	// eligible for release.
	StateCompleted
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateQueued:
		return "Queued"
	case StateExecuting:
		return "Executing"
	case StateCompletionPending:
		return "CompletionPending"
	case StateCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free CAS state machine over a uint32 state enum.
type fastState struct {
	v atomic.Uint32
}

func (s *fastState) load() uint32 {
	return s.v.Load()
}

func (s *fastState) store(state uint32) {
	s.v.Store(state)
}

func (s *fastState) tryTransition(from, to uint32) bool {
	return s.v.CompareAndSwap(from, to)
}
