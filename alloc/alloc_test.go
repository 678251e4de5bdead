package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int32
}

// failAllocator always reports exhaustion.
type failAllocator struct{}

func (failAllocator) Allocate(size uintptr) unsafe.Pointer { return nil }
func (failAllocator) Free(p unsafe.Pointer)                {}

func TestNew(t *testing.T) {
	t.Parallel()

	h := NewHeap()

	p := New[point](h)
	require.NotNil(t, p)
	assert.Equal(t, point{}, *p)
	p.X, p.Y = 3, 4
	assert.Equal(t, 1, h.Live())

	Free(h, p)
	assert.Zero(t, h.Live())
}

func TestNew_allocationFailure(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New[point](failAllocator{}))
	assert.Nil(t, NewSlice[point](failAllocator{}, 3))
}

func TestNew_pointerBearingTypePanics(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	assert.Panics(t, func() { New[string](h) })
	assert.Panics(t, func() { NewSlice[*int](h, 2) })
	assert.Zero(t, h.Live())
}

func TestNewSlice(t *testing.T) {
	t.Parallel()

	h := NewHeap()

	s := NewSlice[point](h, 5)
	require.NotNil(t, s)
	assert.Len(t, s, 5)
	assert.Equal(t, 5, cap(s))
	for i := range s {
		assert.Equal(t, point{}, s[i])
		s[i] = point{X: int32(i), Y: -int32(i)}
	}
	assert.Equal(t, 1, h.Live())

	FreeSlice(h, s)
	assert.Zero(t, h.Live())
}

func TestNewSlice_nonPositiveCount(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	assert.Nil(t, NewSlice[point](h, 0))
	assert.Nil(t, NewSlice[point](h, -1))
	assert.Zero(t, h.Live())
}

func TestFree_nilIsNoop(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	assert.NotPanics(t, func() { Free[point](h, nil) })
	assert.NotPanics(t, func() { FreeSlice[point](h, nil) })
}
