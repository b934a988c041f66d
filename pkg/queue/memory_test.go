package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_EnqueueDequeue(t *testing.T) {
	q := NewInMemoryQueue(2)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	assert.Equal(t, 2, q.Size())

	item, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", item)

	item, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "b", item)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_Full(t *testing.T) {
	q := NewInMemoryQueue(1)

	require.NoError(t, q.Enqueue("a"))
	assert.Equal(t, ErrQueueFull, q.Enqueue("b"))
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(2)
	require.NoError(t, q.Enqueue("a"))

	q.Close()
	assert.Equal(t, ErrQueueClosed, q.Enqueue("b"))

	// pending items drain before the closed error surfaces
	item, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", item)

	_, err = q.Dequeue()
	assert.Equal(t, ErrQueueClosed, err)
}
