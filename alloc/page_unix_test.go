//go:build unix

package alloc

import (
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageAllocator(t *testing.T) {
	t.Parallel()

	a, err := NewPageAllocator()
	require.NoError(t, err)
	assert.Zero(t, a.Live())

	p := a.Allocate(1)
	require.NotNil(t, p)
	assert.Equal(t, 1, a.Live())
	assert.Zero(t, uintptr(p)%uintptr(os.Getpagesize()))

	// the whole page is usable and zeroed
	b := unsafe.Slice((*byte)(p), os.Getpagesize())
	for _, v := range b {
		require.Zero(t, v)
	}
	b[len(b)-1] = 0xff

	a.Free(p)
	assert.Zero(t, a.Live())
}

func TestPageAllocator_freeForeignPointerPanics(t *testing.T) {
	t.Parallel()

	a, err := NewPageAllocator()
	require.NoError(t, err)
	var v uint64
	assert.PanicsWithValue(t, `alloc: free of a pointer not owned by this page allocator`, func() {
		a.Free(unsafe.Pointer(&v))
	})
	assert.NotPanics(t, func() { a.Free(nil) })
}

func TestPageAllocator_typedHelpers(t *testing.T) {
	t.Parallel()

	a, err := NewPageAllocator()
	require.NoError(t, err)

	s := NewSlice[uint64](a, 3)
	require.NotNil(t, s)
	s[0], s[1], s[2] = 1, 2, 3

	FreeSlice(a, s)
	assert.Zero(t, a.Live())
}
