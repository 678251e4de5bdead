package arraylist

import (
	"unsafe"

	"github.com/darkedge/FloatMagic/internal/reloc"
)

// View is a non-owning window over a sequence: an element pointer and a
// count, no allocator, no ownership. A view must not outlive the array or
// fixed buffer it was constructed from, and is invalidated by any
// growth-triggering mutation of a source list.
type View[T any] struct {
	s []T
}

// NewView returns a view over s.
func NewView[T any](s []T) View[T] {
	return View[T]{s: s}
}

// Len returns the element count.
func (x View[T]) Len() int { return len(x.s) }

// At returns a pointer to the element at index i, panicking if i is outside
// [0, Len()).
func (x View[T]) At(i int) *T {
	if i < 0 || i >= len(x.s) {
		panic(`arraylist: index out of range`)
	}
	return &x.s[i]
}

// Slice returns the viewed range.
func (x View[T]) Slice() []T { return x.s }

// ByteWidth returns the total size of the viewed range, in bytes.
func (x View[T]) ByteWidth() int {
	return len(x.s) * int(unsafe.Sizeof(*new(T)))
}

// Reinterpret returns a view over the same bytes as v, retyped to To, with
// the count scaled by the element sizes (truncating: trailing bytes that do
// not fill a whole To are dropped). Both element types must be pointer-free.
//
// The caller is responsible for alignment: reinterpreting to a type with
// stricter alignment than the source is only valid when the source storage
// happens to satisfy it.
func Reinterpret[To, From any](v View[From]) View[To] {
	reloc.Assert[From]()
	reloc.Assert[To]()
	size := unsafe.Sizeof(*new(To))
	if size == 0 || len(v.s) == 0 {
		return View[To]{}
	}
	n := uintptr(v.ByteWidth()) / size
	if n == 0 {
		return View[To]{}
	}
	p := (*To)(unsafe.Pointer(unsafe.SliceData(v.s)))
	return View[To]{s: unsafe.Slice(p, n)}
}
