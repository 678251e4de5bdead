// Package arraylist implements a contiguous, allocator-owned growable array
// with capacity/size separation, and a non-owning view over it.
//
// Element types must be pointer-free, as the backing storage is obtained
// from an [github.com/darkedge/FloatMagic/alloc.Allocator] and is not
// scanned by the garbage collector. The constraint is checked at Init.
//
// See also [github.com/darkedge/FloatMagic/membuf], for cursor-style access
// to externally owned byte ranges.
package arraylist
