package mainloop

import (
	"errors"

	"github.com/joeycumines/logiface"

	"github.com/darkedge/FloatMagic/task"
)

// loopOptions holds configuration options for Loop creation.
type loopOptions struct {
	completions chan *task.Task
	queue       *Queue
	handler     func(Message)
	resources   *task.Resources
	logger      *logiface.Logger[logiface.Event]
}

// LoopOption configures a Loop instance.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (x *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return x.applyLoopFunc(opts)
}

// WithCompletions sets the completion-notification channel as a readiness
// source. The same channel must be handed to the pool's Init; the loop is
// its sole consumer. A closed channel ends the loop with exit code 0.
func WithCompletions(ch chan *task.Task) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if ch == nil {
			return errors.New(`mainloop: nil completion channel`)
		}
		opts.completions = ch
		return nil
	}}
}

// WithQueue sets the message queue as a readiness source.
func WithQueue(q *Queue) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if q == nil {
			return errors.New(`mainloop: nil queue`)
		}
		opts.queue = q
		return nil
	}}
}

// WithHandler sets the dispatch target for non-quit messages. Messages with
// no handler configured are dropped.
func WithHandler(fn func(Message)) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if fn == nil {
			return errors.New(`mainloop: nil handler`)
		}
		opts.handler = fn
		return nil
	}}
}

// WithResources sets the resource registry handed to task completion
// phases. One is created if omitted, see [Loop.Resources].
func WithResources(r *task.Resources) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if r == nil {
			return errors.New(`mainloop: nil resources`)
		}
		opts.resources = r
		return nil
	}}
}

// WithLogger sets the structured logger used by the loop. A nil logger is
// valid, and disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveLoopOptions applies LoopOption instances to loopOptions.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
