//go:build unix

package alloc

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PageAllocator is an [Allocator] backed by anonymous private memory
// mappings, one mapping per allocation, rounded up to the page size.
//
// Not safe for concurrent use.
type PageAllocator struct {
	mappings map[unsafe.Pointer][]byte
	pageSize uintptr
}

// NewPageAllocator returns a new page allocator, verifying that anonymous
// mappings are available by probing one page.
func NewPageAllocator() (*PageAllocator, error) {
	x := &PageAllocator{
		mappings: make(map[unsafe.Pointer][]byte),
		pageSize: uintptr(os.Getpagesize()),
	}
	probe, err := x.mmap(int(x.pageSize))
	if err != nil {
		return nil, fmt.Errorf(`alloc: anonymous mapping probe failed: %w`, err)
	}
	if err := unix.Munmap(probe); err != nil {
		return nil, fmt.Errorf(`alloc: anonymous mapping probe failed: %w`, err)
	}
	return x, nil
}

func (x *PageAllocator) mmap(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// Allocate returns a pointer to at least size bytes of zeroed, page-aligned
// storage, or nil if the mapping fails (recoverable, per the [Allocator]
// contract).
func (x *PageAllocator) Allocate(size uintptr) unsafe.Pointer {
	n := (size + x.pageSize - 1) &^ (x.pageSize - 1)
	if n == 0 {
		n = x.pageSize
	}
	b, err := x.mmap(int(n))
	if err != nil {
		return nil
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	x.mappings[p] = b
	return p
}

// Free unmaps storage previously returned by Allocate. Free(nil) is a no-op;
// freeing an unknown or already-freed pointer panics.
func (x *PageAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	b, ok := x.mappings[p]
	if !ok {
		panic(`alloc: free of a pointer not owned by this page allocator`)
	}
	delete(x.mappings, p)
	_ = unix.Munmap(b)
}

// Live returns the number of live (unfreed) mappings.
func (x *PageAllocator) Live() int {
	return len(x.mappings)
}
