package membuf

import (
	"unsafe"

	"github.com/darkedge/FloatMagic/internal/reloc"
)

// Buffer is a bounded cursor over an externally owned byte range. It has
// value semantics: copies advance independently. The buffer never owns the
// range, and never allocates.
//
// The zero value is already poisoned; construct via Wrap.
type Buffer struct {
	buf []byte
	off int
}

// Wrap returns a cursor over p, positioned at the start. Wrap(nil) yields a
// poisoned cursor.
func Wrap(p []byte) Buffer {
	return Buffer{buf: p}
}

// Good reports whether the cursor has not been poisoned. It must be checked
// after any sequence of operations whose success matters.
func (x *Buffer) Good() bool { return x.buf != nil }

// SizeLeft returns the number of bytes between the current position and the
// end of the range. A poisoned cursor has no bytes left.
func (x *Buffer) SizeLeft() int { return len(x.buf) - x.off }

func (x *Buffer) poison() {
	x.buf = nil
	x.off = 0
}

// claim advances the cursor past n bytes and returns them, or returns nil
// and poisons the cursor when fewer than n bytes remain. On an already
// poisoned cursor it is a silent no-op, returning nil.
func (x *Buffer) claim(n int) []byte {
	if x.buf == nil {
		return nil
	}
	if n < 0 || n > x.SizeLeft() {
		x.poison()
		return nil
	}
	b := x.buf[x.off : x.off+n]
	x.off += n
	return b
}

// Skip advances the cursor past n bytes without touching them.
func (x *Buffer) Skip(n int) *Buffer {
	x.claim(n)
	return x
}

// WriteBytes copies p into the range at the current position and advances
// past it.
func (x *Buffer) WriteBytes(p []byte) *Buffer {
	if b := x.claim(len(p)); b != nil {
		copy(b, p)
	}
	return x
}

// Write copies the native-endianness bytes of v into the range at the
// current position and advances past them. T must be pointer-free.
func Write[T any](x *Buffer, v T) *Buffer {
	reloc.Assert[T]()
	size := int(unsafe.Sizeof(v))
	if b := x.claim(size); b != nil {
		copy(b, unsafe.Slice((*byte)(unsafe.Pointer(&v)), size))
	}
	return x
}

// Read copies the bytes at the current position into *out and advances past
// them. On a poisoned cursor, or when too few bytes remain, *out is left
// untouched. T must be pointer-free. Panics on a nil out.
func Read[T any](x *Buffer, out *T) *Buffer {
	reloc.Assert[T]()
	if out == nil {
		panic(`membuf: nil output pointer`)
	}
	size := int(unsafe.Sizeof(*out))
	if b := x.claim(size); b != nil {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(out)), size), b)
	}
	return x
}

// Reserve claims n * sizeof(T) bytes and returns them as a []T without
// constructing (the bytes are preserved); nil on failure, poison, or n <= 0.
// T must be pointer-free. The caller is responsible for the alignment of
// the claimed range.
func Reserve[T any](x *Buffer, n int) []T {
	reloc.Assert[T]()
	size := unsafe.Sizeof(*new(T))
	if n <= 0 || size == 0 {
		return nil
	}
	b := x.claim(n * int(size))
	if b == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// New claims sizeof(T) bytes, zeroes them (in-place construction), and
// returns the typed pointer; nil on failure or poison. T must be
// pointer-free. The caller is responsible for alignment, see Reserve.
func New[T any](x *Buffer) *T {
	s := NewSlice[T](x, 1)
	if s == nil {
		return nil
	}
	return &s[0]
}

// NewSlice claims and zero-constructs n elements; nil on failure, poison, or
// n <= 0. T must be pointer-free. The caller is responsible for alignment,
// see Reserve.
func NewSlice[T any](x *Buffer, n int) []T {
	s := Reserve[T](x, n)
	if s == nil {
		return nil
	}
	clear(s)
	return s
}
