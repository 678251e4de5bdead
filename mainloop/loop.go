package mainloop

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/joeycumines/logiface"

	"github.com/darkedge/FloatMagic/task"
)

// Standard errors.
var (
	// ErrAlreadyRunning is returned when Run is called on a loop that is
	// already running, including reentrantly from a handler or completion
	// phase.
	ErrAlreadyRunning = errors.New(`mainloop: loop is already running`)

	// ErrTerminated is returned when Run is called on a loop that has
	// already exited.
	ErrTerminated = errors.New(`mainloop: loop has been terminated`)

	// ErrNoSources is returned by New when neither a completion channel nor
	// a queue is configured.
	ErrNoSources = errors.New(`mainloop: at least one readiness source is required`)
)

// Loop lifecycle states.
const (
	loopCreated uint32 = iota
	loopRunning
	loopTerminated
)

// Loop multiplexes the completion-notification channel and the message
// queue on a single goroutine. Each instance runs at most once.
type Loop struct {
	logger      *logiface.Logger[logiface.Event]
	completions chan *task.Task
	queue       *Queue
	handler     func(Message)
	resources   *task.Resources

	state       atomic.Uint32
	goroutineID atomic.Uint64
}

// New returns a new loop. At least one of [WithCompletions] and [WithQueue]
// is required.
func New(options ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(options)
	if err != nil {
		return nil, err
	}
	if cfg.completions == nil && cfg.queue == nil {
		return nil, ErrNoSources
	}
	if cfg.resources == nil {
		cfg.resources = task.NewResources()
	}
	return &Loop{
		logger:      cfg.logger,
		completions: cfg.completions,
		queue:       cfg.queue,
		handler:     cfg.handler,
		resources:   cfg.resources,
	}, nil
}

// Resources returns the registry handed to completion phases. While the
// loop runs it is bound to the loop goroutine; access from anywhere else
// panics.
func (x *Loop) Resources() *task.Resources {
	return x.resources
}

// Run blocks, servicing both readiness sources, until a quit message
// arrives (returning its code), the completion channel closes (code 0), or
// ctx is done (code 0, ctx.Err()).
//
// Per completion readiness, exactly one completion is received and its
// completion phase dispatched. Per queue readiness, all queued messages are
// drained in arrival order without blocking; a quit observed mid-drain
// stops immediately, dropping the remainder. Across sources there is no
// priority beyond select fairness.
//
// Run locks the OS thread for its duration, and binds the resource registry
// to its goroutine. Panics on a nil ctx.
func (x *Loop) Run(ctx context.Context) (int, error) {
	if ctx == nil {
		panic(`mainloop: nil context`)
	}
	if !x.state.CompareAndSwap(loopCreated, loopRunning) {
		if x.state.Load() == loopRunning {
			return 0, ErrAlreadyRunning
		}
		return 0, ErrTerminated
	}
	defer x.state.Store(loopTerminated)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	x.goroutineID.Store(getGoroutineID())
	defer x.goroutineID.Store(0)

	x.resources.Bind()
	defer x.resources.Unbind()

	var msgCh chan Message
	if x.queue != nil {
		msgCh = x.queue.ch
	}
	// receives on a nil channel block forever, disabling the absent source

	x.logger.Debug().Log(`loop running`)
	dispatched := 0
	for {
		select {
		case <-ctx.Done():
			x.logger.Debug().
				Int(`completions`, dispatched).
				Log(`loop canceled`)
			return 0, ctx.Err()

		case t, ok := <-x.completions:
			if !ok {
				// the pool was destroyed under the loop; clean exit
				x.logger.Debug().
					Int(`completions`, dispatched).
					Log(`completion channel closed`)
				return 0, nil
			}
			t.End(x.resources)
			dispatched++

		case m := <-msgCh:
			if code, quit := x.drainMessages(m); quit {
				x.logger.Debug().
					Int(`code`, code).
					Int(`completions`, dispatched).
					Log(`loop quit`)
				return code, nil
			}
		}
	}
}

// drainMessages dispatches m and every further queued message, in arrival
// order, without blocking, stopping immediately on a quit (whose code it
// returns; the remainder of the queue is dropped with the loop exit).
func (x *Loop) drainMessages(m Message) (int, bool) {
	for {
		if m.Kind == KindQuit {
			code, _ := m.Data.(int)
			return code, true
		}
		if x.handler != nil {
			x.handler(m)
		}
		select {
		case m = <-x.queue.ch:
		default:
			return 0, false
		}
	}
}

// isLoopGoroutine checks if we're on the loop goroutine.
func (x *Loop) isLoopGoroutine() bool {
	id := x.goroutineID.Load()
	return id != 0 && id == getGoroutineID()
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
