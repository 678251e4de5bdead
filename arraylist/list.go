package arraylist

import (
	"github.com/darkedge/FloatMagic/alloc"
	"github.com/darkedge/FloatMagic/internal/reloc"
)

// List is a contiguous, allocator-owned sequence of elements.
//
// Elements [0, Len()) are live; [Len(), Cap()) is uninitialized storage.
// Capacity only grows, never shrinks, except on Destroy. Every mutating
// operation that requires growth and fails to allocate leaves the list in
// its prior valid state and reports failure, with no partial mutation.
//
// The zero value is unusable; call Init or InitCapacity first. Not safe for
// concurrent use.
type List[T any] struct {
	items []T // backing storage, len == capacity
	count int
	alloc alloc.Allocator
}

// Init associates the list with an allocator, without allocating. Panics on
// a nil allocator, and on pointer-bearing element types (see the package
// documentation).
func (x *List[T]) Init(a alloc.Allocator) {
	reloc.Assert[T]()
	if a == nil {
		panic(`arraylist: nil allocator`)
	}
	x.items = nil
	x.count = 0
	x.alloc = a
}

// InitCapacity is Init plus a pre-allocation of capacity elements. Returns
// false (leaving the list initialized but empty) if the allocation fails.
func (x *List[T]) InitCapacity(a alloc.Allocator, capacity int) bool {
	x.Init(a)
	if capacity <= 0 {
		return true
	}
	items := alloc.NewSlice[T](a, capacity)
	if items == nil {
		return false
	}
	x.items = items
	return true
}

// Len returns the number of live elements.
func (x *List[T]) Len() int { return x.count }

// Cap returns the current capacity.
func (x *List[T]) Cap() int { return len(x.items) }

// At returns a pointer to the element at index i, panicking if i is outside
// [0, Len()). The pointer is invalidated by any growth of the list.
func (x *List[T]) At(i int) *T {
	if i < 0 || i >= x.count {
		panic(`arraylist: index out of range`)
	}
	return &x.items[i]
}

// Slice returns the live range [0, Len()). The slice is invalidated by any
// growth of the list.
func (x *List[T]) Slice() []T { return x.items[:x.count] }

// grow reallocates so that at least needed elements fit, bulk-copying the
// live range. The doubling policy: max(needed, 2*cap, 4). On allocation
// failure the list is untouched.
func (x *List[T]) grow(needed int) bool {
	if x.alloc == nil {
		panic(`arraylist: list is not initialized`)
	}
	target := needed
	if c := 2 * len(x.items); c > target {
		target = c
	}
	if target < 4 {
		target = 4
	}
	items := alloc.NewSlice[T](x.alloc, target)
	if items == nil {
		return false
	}
	copy(items, x.items[:x.count])
	alloc.FreeSlice(x.alloc, x.items)
	x.items = items
	return true
}

// Reserve extends Len by n and returns the newly reserved range, without
// constructing it (the returned elements may hold stale bytes). Returns nil
// if n <= 0 or growth fails.
func (x *List[T]) Reserve(n int) []T {
	if n <= 0 {
		return nil
	}
	if x.count+n > len(x.items) && !x.grow(x.count+n) {
		return nil
	}
	r := x.items[x.count : x.count+n]
	x.count += n
	return r
}

// Insert shifts [position, Len()) right by len(src) and copies src into the
// gap, returning the inserted range. Returns nil when src is nil, position
// is outside [0, Len()], or growth fails (prior state intact). A non-nil
// empty src yields the empty range at position.
func (x *List[T]) Insert(position int, src []T) []T {
	if src == nil || position < 0 || position > x.count {
		return nil
	}
	n := len(src)
	if n == 0 {
		if x.items == nil {
			return []T{}
		}
		return x.items[position:position]
	}
	if x.count+n > len(x.items) && !x.grow(x.count+n) {
		return nil
	}
	copy(x.items[position+n:x.count+n], x.items[position:x.count])
	copy(x.items[position:position+n], src)
	x.count += n
	return x.items[position : position+n]
}

// Erase closes the gap [position, position+n) by shifting the tail left,
// clamping n to the available tail (erase-through-end is valid). Returns
// the range now starting at position (possibly empty), or nil if position
// is outside [0, Len()) or n < 0.
func (x *List[T]) Erase(position, n int) []T {
	if n < 0 || position < 0 || position >= x.count {
		return nil
	}
	if n > x.count-position {
		n = x.count - position
	}
	copy(x.items[position:], x.items[position+n:x.count])
	x.count -= n
	return x.items[position:x.count]
}

// Add appends one element, growing via the doubling policy at capacity.
// Returns false on growth failure, with the list untouched.
func (x *List[T]) Add(v T) bool {
	if x.count == len(x.items) && !x.grow(x.count+1) {
		return false
	}
	x.items[x.count] = v
	x.count++
	return true
}

// Assign replaces the contents and storage with an exact-fit copy of src.
// Returns false on allocation failure, with the list untouched.
func (x *List[T]) Assign(src []T) bool {
	if len(src) == 0 {
		alloc.FreeSlice(x.alloc, x.items)
		x.items = nil
		x.count = 0
		return true
	}
	items := alloc.NewSlice[T](x.alloc, len(src))
	if items == nil {
		return false
	}
	copy(items, src)
	alloc.FreeSlice(x.alloc, x.items)
	x.items = items
	x.count = len(src)
	return true
}

// Clear resets Len to 0, retaining capacity.
func (x *List[T]) Clear() { x.count = 0 }

// Destroy frees the backing storage through the allocator and reverts the
// list to its uninitialized zero value.
func (x *List[T]) Destroy() {
	if x.alloc != nil {
		alloc.FreeSlice(x.alloc, x.items)
	}
	*x = List[T]{}
}

// ToView returns a non-owning view over the live range. The view is
// invalidated by any growth of the list, and must not outlive it.
func (x *List[T]) ToView() View[T] {
	return View[T]{s: x.items[:x.count]}
}
