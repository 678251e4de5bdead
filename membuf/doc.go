// Package membuf implements a bounded read/write cursor over an externally
// owned byte range, used to serialize and deserialize plain values and to
// carve out sub-allocations.
//
// Failure is sticky: the first operation that would run past the end of the
// range poisons the cursor permanently, with no partial effect, and every
// subsequent operation silently no-ops. Callers check Good once, at the end
// of a sequence of operations, rather than after every step.
package membuf
