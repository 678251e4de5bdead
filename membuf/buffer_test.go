package membuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_writePastEndPoisons(t *testing.T) {
	t.Parallel()

	storage := make([]byte, 8)
	b := Wrap(storage)

	Write(&b, uint32(0xdeadbeef))
	assert.True(t, b.Good())
	assert.Equal(t, 4, b.SizeLeft())

	Write(&b, uint64(1))
	assert.False(t, b.Good())
	assert.Zero(t, b.SizeLeft())

	// subsequent reads of any size fail, including ones that would
	// individually fit the original range
	var v8 uint8
	Read(&b, &v8)
	assert.False(t, b.Good())
	assert.Zero(t, v8)

	// no partial effect: the failed 8-byte write touched nothing
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde, 0, 0, 0, 0}, storage)
}

func TestBuffer_stickyAcrossAllOperations(t *testing.T) {
	t.Parallel()

	b := Wrap(make([]byte, 4))
	b.Skip(8)
	require.False(t, b.Good())

	var v uint8
	assert.False(t, Read(&b, &v).Good())
	assert.False(t, Write(&b, uint8(1)).Good())
	assert.False(t, b.WriteBytes([]byte{1}).Good())
	assert.False(t, b.Skip(0).Good())
	assert.Nil(t, Reserve[uint8](&b, 1))
	assert.Nil(t, New[uint8](&b))
	assert.Nil(t, NewSlice[uint8](&b, 1))
}

func TestBuffer_readWriteRoundTrip(t *testing.T) {
	t.Parallel()

	type header struct {
		Magic uint32
		Count uint16
	}

	storage := make([]byte, 32)
	w := Wrap(storage)
	Write(&w, header{Magic: 0x464d3031, Count: 3})
	Write(&w, int64(-12345))
	w.WriteBytes([]byte{1, 2, 3})
	require.True(t, w.Good())

	r := Wrap(storage)
	var h header
	var n int64
	var tail [3]byte
	Read(&r, &h)
	Read(&r, &n)
	Read(&r, &tail)
	require.True(t, r.Good())
	assert.Equal(t, header{Magic: 0x464d3031, Count: 3}, h)
	assert.Equal(t, int64(-12345), n)
	assert.Equal(t, [3]byte{1, 2, 3}, tail)
}

func TestBuffer_skip(t *testing.T) {
	t.Parallel()

	storage := []byte{1, 2, 3, 4}
	b := Wrap(storage)
	var v uint8
	Read(b.Skip(2), &v)
	require.True(t, b.Good())
	assert.Equal(t, uint8(3), v)
	assert.Equal(t, 1, b.SizeLeft())

	assert.False(t, b.Skip(-1).Good())
}

func TestBuffer_reserve(t *testing.T) {
	t.Parallel()

	storage := make([]byte, 16)
	b := Wrap(storage)

	s := Reserve[uint32](&b, 3)
	require.NotNil(t, s)
	require.Len(t, s, 3)
	assert.Equal(t, 4, b.SizeLeft())
	s[0] = 0x01020304
	assert.Equal(t, byte(0x04), storage[0])

	assert.Nil(t, Reserve[uint32](&b, 0))
	assert.True(t, b.Good())

	assert.Nil(t, Reserve[uint32](&b, 2))
	assert.False(t, b.Good())
}

func TestBuffer_newZeroes(t *testing.T) {
	t.Parallel()

	storage := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	b := Wrap(storage)

	p := New[uint32](&b)
	require.NotNil(t, p)
	assert.Zero(t, *p)
	assert.Equal(t, []byte{0, 0, 0, 0}, storage[:4])

	s := NewSlice[uint16](&b, 2)
	require.NotNil(t, s)
	assert.Equal(t, []uint16{0, 0}, s)
	assert.True(t, b.Good())
	assert.Zero(t, b.SizeLeft())
}

func TestBuffer_subAllocationCarving(t *testing.T) {
	t.Parallel()

	// carve one backing range into a struct plus a trailing array
	type entry struct{ Off, Len uint32 }
	storage := make([]byte, 64)
	b := Wrap(storage)

	hdr := New[uint64](&b)
	entries := NewSlice[entry](&b, 4)
	require.True(t, b.Good())
	require.NotNil(t, hdr)
	require.Len(t, entries, 4)

	*hdr = 4
	entries[3] = entry{Off: 40, Len: 2}
	assert.Equal(t, 64-8-4*8, b.SizeLeft())
}

func TestBuffer_zeroValueAndNilWrapArePoisoned(t *testing.T) {
	t.Parallel()

	var zero Buffer
	assert.False(t, zero.Good())
	assert.Zero(t, zero.SizeLeft())

	b := Wrap(nil)
	assert.False(t, b.Good())
	var v uint8
	assert.False(t, Read(&b, &v).Good())
}

func TestBuffer_valueSemantics(t *testing.T) {
	t.Parallel()

	storage := make([]byte, 8)
	a := Wrap(storage)
	b := a
	Write(&a, uint64(1))
	assert.True(t, a.Good())
	assert.Zero(t, a.SizeLeft())
	assert.Equal(t, 8, b.SizeLeft()) // the copy did not advance
}
