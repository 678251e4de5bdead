package task

import "errors"

var (
	// ErrNotInitialized is returned when Submit is called before Init.
	ErrNotInitialized = errors.New(`task: pool is not initialized`)

	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New(`task: pool is already initialized`)

	// ErrDestroyed is returned when operations are attempted on a pool that
	// has been destroyed, or is being destroyed.
	ErrDestroyed = errors.New(`task: pool has been destroyed`)

	// ErrResubmitted is returned when Submit is called on a task that has
	// already been submitted.
	ErrResubmitted = errors.New(`task: task has already been submitted`)
)
