// Package alloc provides the allocator capability used by the container
// packages, plus concrete allocators backed by the Go heap and by anonymous
// memory mappings.
//
// Allocators are not safe for concurrent use. The intended discipline is
// main-thread ownership, with worker goroutines restricted to task-private
// scratch storage that is only published at completion delivery.
//
// See also [github.com/darkedge/FloatMagic/arraylist] and
// [github.com/darkedge/FloatMagic/membuf], the containers built on it.
package alloc
