// Package mainloop implements the single-threaded cooperative multiplexer
// driving task completions and queued messages to their handlers: one
// blocking wait over both readiness sources, servicing whichever is ready,
// with arrival order preserved within each source and no priority across
// them beyond select fairness.
//
// See also [github.com/darkedge/FloatMagic/task], the producer side of the
// completion channel.
package mainloop
