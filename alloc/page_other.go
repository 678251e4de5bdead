//go:build !unix

package alloc

import (
	"errors"
	"unsafe"
)

// PageAllocator is only available on unix platforms.
type PageAllocator struct{}

// NewPageAllocator returns an error on non-unix platforms; use [NewHeap]
// instead.
func NewPageAllocator() (*PageAllocator, error) {
	return nil, errors.New(`alloc: page allocator requires a unix platform`)
}

func (x *PageAllocator) Allocate(size uintptr) unsafe.Pointer { return nil }

func (x *PageAllocator) Free(p unsafe.Pointer) {
	if p != nil {
		panic(`alloc: free of a pointer not owned by this page allocator`)
	}
}

func (x *PageAllocator) Live() int { return 0 }
