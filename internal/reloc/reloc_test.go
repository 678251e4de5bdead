package reloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flat struct {
	A int32
	B [8]byte
	C float64
}

type nested struct {
	F flat
	G [2]flat
}

type withString struct {
	A int
	S string
}

type withSlice struct {
	B []byte
}

func TestPointerFree(t *testing.T) {
	t.Parallel()

	assert.True(t, PointerFree[int]())
	assert.True(t, PointerFree[uint64]())
	assert.True(t, PointerFree[[16]byte]())
	assert.True(t, PointerFree[flat]())
	assert.True(t, PointerFree[nested]())
	assert.True(t, PointerFree[complex128]())

	assert.False(t, PointerFree[string]())
	assert.False(t, PointerFree[[]byte]())
	assert.False(t, PointerFree[*int]())
	assert.False(t, PointerFree[map[int]int]())
	assert.False(t, PointerFree[chan int]())
	assert.False(t, PointerFree[func()]())
	assert.False(t, PointerFree[any]())
	assert.False(t, PointerFree[withString]())
	assert.False(t, PointerFree[withSlice]())
	assert.False(t, PointerFree[[4]withString]())
}

func TestAssert(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Assert[flat]() })
	assert.PanicsWithValue(t,
		`reloc: type reloc.withString contains Go pointers and cannot be stored in unmanaged memory`,
		func() { Assert[withString]() },
	)
}
