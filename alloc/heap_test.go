package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap_allocateFree(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	assert.Zero(t, h.Live())

	p := h.Allocate(32)
	require.NotNil(t, p)
	assert.Equal(t, 1, h.Live())

	// storage must be zeroed and writable across the full range
	b := unsafe.Slice((*byte)(p), 32)
	for i, v := range b {
		require.Zerof(t, v, `byte %d`, i)
	}
	for i := range b {
		b[i] = byte(i)
	}

	h.Free(p)
	assert.Zero(t, h.Live())
}

func TestHeap_zeroSizeAllocationsAreDistinct(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	p1 := h.Allocate(0)
	p2 := h.Allocate(0)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, 2, h.Live())
	h.Free(p1)
	h.Free(p2)
	assert.Zero(t, h.Live())
}

func TestHeap_freeNilIsNoop(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	assert.NotPanics(t, func() { h.Free(nil) })
	assert.Zero(t, h.Live())
}

func TestHeap_freeForeignPointerPanics(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	var v uint64
	assert.PanicsWithValue(t, `alloc: free of a pointer not owned by this heap`, func() {
		h.Free(unsafe.Pointer(&v))
	})
}

func TestHeap_doubleFreePanics(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	p := h.Allocate(8)
	require.NotNil(t, p)
	h.Free(p)
	assert.PanicsWithValue(t, `alloc: free of a pointer not owned by this heap`, func() {
		h.Free(p)
	})
}
