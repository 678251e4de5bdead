package mainloop

// Kind identifies a message class. KindQuit is reserved; applications define
// their own nonzero kinds.
type Kind uint32

// KindQuit terminates the loop. Data carries the exit code as an int.
// Messages still queued behind a quit are dropped.
const KindQuit Kind = 0

// Message is one unit of the host message queue.
type Message struct {
	Data any
	Kind Kind
}

// Queue is a bounded message queue, the host UI message queue stand-in.
// Posting is safe from any goroutine; the loop is the sole consumer.
type Queue struct {
	ch chan Message
}

// NewQueue returns a new queue. capacity defaults to 10000, if 0; a negative
// capacity panics.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		panic(`mainloop: negative queue capacity`)
	}
	if capacity == 0 {
		capacity = 10000
	}
	return &Queue{ch: make(chan Message, capacity)}
}

// Post enqueues m, returning false when the queue is full (the message is
// dropped, matching the bounded host queue).
func (x *Queue) Post(m Message) bool {
	select {
	case x.ch <- m:
		return true
	default:
		return false
	}
}

// PostQuit posts a [KindQuit] message carrying code, subject to the same
// capacity bound as Post.
func (x *Queue) PostQuit(code int) bool {
	return x.Post(Message{Kind: KindQuit, Data: code})
}

// Len returns the number of queued messages, a point-in-time snapshot.
func (x *Queue) Len() int {
	return len(x.ch)
}
