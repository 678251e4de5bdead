// Package task implements a two-phase asynchronous task model: an off-thread
// execution phase, run by a pool-owned worker, and a completion phase, run
// exactly once, strictly afterwards, on the event loop goroutine.
//
// The submitter allocates a task from the pool, populates its inputs, and
// hands ownership to the pool at Submit. Ownership returns at completion
// delivery; between the two, the task must not be touched. The completion
// channel send is also the memory-visibility boundary, so the completion
// phase observes every write made during execution.
//
// See also [github.com/darkedge/FloatMagic/mainloop], the single consumer of
// the completion channel.
package task
