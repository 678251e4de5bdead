package task

import (
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/darkedge/FloatMagic/alloc"
)

// ErrorPolicy selects how the pool treats a non-nil error (or panic) from an
// execution phase.
type ErrorPolicy uint32

const (
	// ErrorPolicyFatal treats execution failure as fatal to the whole
	// process: the error is logged at critical level, then the fatal func
	// runs (default: os.Exit(2)). The completion is never delivered. This is
	// the intended behavior for irrecoverable startup-resource acquisition,
	// and the default.
	ErrorPolicyFatal ErrorPolicy = iota

	// ErrorPolicyReport records the error on the task, logs it at error
	// level (rate limited per task name), and delivers the completion
	// normally, so the owner observes [Task.Err].
	ErrorPolicyReport
)

// String returns a human-readable representation of the policy.
func (p ErrorPolicy) String() string {
	switch p {
	case ErrorPolicyFatal:
		return "Fatal"
	case ErrorPolicyReport:
		return "Report"
	default:
		return "Unknown"
	}
}

// poolOptions holds configuration options for Pool creation.
type poolOptions struct {
	workers    int
	logger     *logiface.Logger[logiface.Event]
	allocator  alloc.Allocator
	policy     ErrorPolicy
	fatalFunc  func(*Task, error)
	rateLimits map[time.Duration]int
}

// PoolOption configures a Pool instance.
type PoolOption interface {
	applyPool(*poolOptions) error
}

// poolOptionImpl implements PoolOption.
type poolOptionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (x *poolOptionImpl) applyPool(opts *poolOptions) error {
	return x.applyPoolFunc(opts)
}

// WithWorkers sets the number of worker goroutines.
// Defaults to runtime.GOMAXPROCS(0), if 0.
func WithWorkers(n int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if n < 0 {
			return errors.New(`task: workers must be >= 0`)
		}
		opts.workers = n
		return nil
	}}
}

// WithLogger sets the structured logger used by the pool. A nil logger is
// valid, and disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithAllocator sets the allocator backing typed task payloads, see
// [Create]. Defaults to a pool-owned [alloc.Heap]. Per the allocator
// contract, use is confined to the submitting/completing goroutine.
func WithAllocator(a alloc.Allocator) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if a == nil {
			return errors.New(`task: nil allocator`)
		}
		opts.allocator = a
		return nil
	}}
}

// WithErrorPolicy sets how execution-phase failures are handled.
// See [ErrorPolicy]; defaults to [ErrorPolicyFatal].
func WithErrorPolicy(policy ErrorPolicy) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		switch policy {
		case ErrorPolicyFatal, ErrorPolicyReport:
			opts.policy = policy
			return nil
		default:
			return errors.New(`task: invalid error policy`)
		}
	}}
}

// WithFatalFunc overrides the terminal action taken under
// [ErrorPolicyFatal]. The default calls os.Exit(2) and does not return;
// overrides that return cause the failed completion to be delivered, which
// is primarily useful to tests.
func WithFatalFunc(fn func(*Task, error)) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if fn == nil {
			return errors.New(`task: nil fatal func`)
		}
		opts.fatalFunc = fn
		return nil
	}}
}

// WithErrorRateLimits configures the sliding windows used to rate limit
// error logs under [ErrorPolicyReport], keyed by task name, in the form
// accepted by catrate (window duration to event count).
// Defaults to 10 per second, if nil.
func WithErrorRateLimits(rates map[time.Duration]int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.rateLimits = rates
		return nil
	}}
}

// resolvePoolOptions applies PoolOption instances to poolOptions.
func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.workers == 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	if cfg.allocator == nil {
		cfg.allocator = alloc.NewHeap()
	}
	if cfg.rateLimits == nil {
		cfg.rateLimits = map[time.Duration]int{time.Second: 10}
	}
	if cfg.fatalFunc == nil {
		cfg.fatalFunc = func(*Task, error) { os.Exit(2) }
	}
	return cfg, nil
}
