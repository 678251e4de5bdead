package alloc

import (
	"unsafe"

	"github.com/darkedge/FloatMagic/internal/reloc"
)

// Allocator grants the capability to allocate and free raw byte ranges.
//
// Allocation failure is a recoverable condition, reported by returning nil,
// never by panicking or aborting. Callers must check for nil and degrade.
//
// Implementations are NOT safe for concurrent use.
type Allocator interface {
	// Allocate returns a pointer to at least size bytes of zeroed storage,
	// or nil if the allocation cannot be satisfied.
	Allocate(size uintptr) unsafe.Pointer

	// Free releases storage previously returned by Allocate. Free(nil) is a
	// no-op. Freeing a pointer the allocator does not own is programmer
	// misuse, and panics.
	Free(p unsafe.Pointer)
}

// New allocates storage for a single T from a, returning a zeroed *T, or nil
// on allocation failure.
//
// T must be pointer-free (no Go pointers, strings, slices, maps, chans,
// funcs, or interfaces at any depth), as allocator storage is not scanned by
// the garbage collector. Pointer-bearing types panic.
func New[T any](a Allocator) *T {
	reloc.Assert[T]()
	p := a.Allocate(unsafe.Sizeof(*new(T)))
	if p == nil {
		return nil
	}
	v := (*T)(p)
	var zero T
	*v = zero
	return v
}

// NewSlice allocates storage for n elements of T from a, returning a zeroed
// slice of length and capacity n, or nil on allocation failure or n <= 0.
//
// T must be pointer-free, see New.
func NewSlice[T any](a Allocator, n int) []T {
	reloc.Assert[T]()
	if n <= 0 {
		return nil
	}
	p := a.Allocate(uintptr(n) * unsafe.Sizeof(*new(T)))
	if p == nil {
		return nil
	}
	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s
}

// Free releases a value allocated via New. Free(a, nil) is a no-op.
//
// Go has no destructors; the typed form exists for symmetry with New, and so
// the call site carries the element type.
func Free[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	a.Free(unsafe.Pointer(p))
}

// FreeSlice releases a slice allocated via NewSlice. FreeSlice(a, nil) is a
// no-op.
func FreeSlice[T any](a Allocator, s []T) {
	if s == nil {
		return
	}
	a.Free(unsafe.Pointer(unsafe.SliceData(s)))
}
