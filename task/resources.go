package task

import (
	"errors"
	"io"
	"runtime"
	"sync/atomic"
)

// Resources is the explicit context object handed to task completion phases,
// replacing process-wide service-locator state: the sole handoff point
// between worker-produced resources and their main-thread consumers.
//
// Once bound to a goroutine (the event loop does this for the duration of
// Run), access from any other goroutine panics; worker isolation is
// structural, not advisory. While unbound, access is unrestricted, though
// still not safe for concurrent use.
type Resources struct {
	values map[string]any
	order  []string
	bound  atomic.Uint64 // goroutine id, 0 = unbound
}

// NewResources returns a new, empty, unbound registry.
func NewResources() *Resources {
	return &Resources{values: make(map[string]any)}
}

// Bind restricts access to the calling goroutine, until Unbind. Panics if
// already bound.
func (x *Resources) Bind() {
	if !x.bound.CompareAndSwap(0, getGoroutineID()) {
		panic(`task: resources are already bound`)
	}
}

// Unbind lifts the goroutine restriction. Panics when called from a
// goroutine other than the bound one.
func (x *Resources) Unbind() {
	x.check()
	x.bound.Store(0)
}

func (x *Resources) check() {
	if id := x.bound.Load(); id != 0 && id != getGoroutineID() {
		panic(`task: resources accessed off the bound goroutine`)
	}
}

// Provide registers value under key, replacing any previous value. The
// registration order of new keys is retained for Close.
func (x *Resources) Provide(key string, value any) {
	x.check()
	if _, ok := x.values[key]; !ok {
		x.order = append(x.order, key)
	}
	x.values[key] = value
}

// Lookup returns the value registered under key.
func (x *Resources) Lookup(key string) (any, bool) {
	x.check()
	v, ok := x.values[key]
	return v, ok
}

// Resource is the typed form of [Resources.Lookup]; false when the key is
// missing or the value is not a T.
func Resource[T any](r *Resources, key string) (T, bool) {
	v, ok := r.Lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Close releases, in reverse registration order, every registered value
// implementing [io.Closer], joining their errors, and empties the registry.
// Idempotent. Deterministic release on every exit path is the caller's
// responsibility, typically via defer.
func (x *Resources) Close() error {
	x.check()
	var errs []error
	for i := len(x.order) - 1; i >= 0; i-- {
		if c, ok := x.values[x.order[i]].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	x.values = make(map[string]any)
	x.order = nil
	return errors.Join(errs...)
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
