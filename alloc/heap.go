package alloc

import "unsafe"

// Heap is an [Allocator] backed by the Go heap.
//
// Backing storage is allocated as 8-byte-aligned blocks, retained internally
// so the storage stays reachable until the corresponding Free. Not safe for
// concurrent use.
type Heap struct {
	blocks map[unsafe.Pointer][]uint64
}

// NewHeap returns a new, empty heap allocator.
func NewHeap() *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer][]uint64)}
}

// Allocate returns a pointer to at least size bytes of zeroed storage.
// The Go heap does not report exhaustion short of aborting the process, so
// Allocate never returns nil in practice; the nil contract is still honored.
func (x *Heap) Allocate(size uintptr) unsafe.Pointer {
	words := (size + 7) / 8
	if words == 0 {
		words = 1 // distinct pointer per allocation, zero-size included
	}
	block := make([]uint64, words)
	p := unsafe.Pointer(unsafe.SliceData(block))
	x.blocks[p] = block
	return p
}

// Free releases storage previously returned by Allocate. Free(nil) is a
// no-op; freeing an unknown or already-freed pointer panics.
func (x *Heap) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if _, ok := x.blocks[p]; !ok {
		panic(`alloc: free of a pointer not owned by this heap`)
	}
	delete(x.blocks, p)
}

// Live returns the number of live (unfreed) allocations, e.g. for leak
// assertions in tests.
func (x *Heap) Live() int {
	return len(x.blocks)
}
