package mainloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueue_defaults(t *testing.T) {
	t.Parallel()

	q := NewQueue(0)
	assert.Equal(t, 10000, cap(q.ch))
	assert.Zero(t, q.Len())

	assert.PanicsWithValue(t, `mainloop: negative queue capacity`, func() { NewQueue(-1) })
}

func TestQueue_postOverflow(t *testing.T) {
	t.Parallel()

	q := NewQueue(2)
	assert.True(t, q.Post(Message{Kind: 1}))
	assert.True(t, q.Post(Message{Kind: 2}))
	assert.Equal(t, 2, q.Len())

	assert.False(t, q.Post(Message{Kind: 3}), `full queue drops the message`)
	assert.False(t, q.PostQuit(0))
	assert.Equal(t, 2, q.Len())
}

func TestQueue_postQuitCarriesCode(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	require.True(t, q.PostQuit(42))
	m := <-q.ch
	assert.Equal(t, KindQuit, m.Kind)
	assert.Equal(t, 42, m.Data)
}
