package queue

import (
	"errors"
	"sync"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// InMemoryQueue implements a bounded in-memory queue.
type InMemoryQueue struct {
	ch     chan interface{}
	lock   sync.Mutex
	closed bool
}

// NewInMemoryQueue creates a new queue with the given capacity.
func NewInMemoryQueue(size int) *InMemoryQueue {
	return &InMemoryQueue{
		ch: make(chan interface{}, size),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue removes and returns the item from the front of the queue,
// blocking until one is available. It returns ErrQueueClosed once the
// queue has been closed and drained.
func (q *InMemoryQueue) Dequeue() (interface{}, error) {
	item, ok := <-q.ch
	if !ok {
		return nil, ErrQueueClosed
	}
	return item, nil
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

// Close closes the queue. Pending items can still be dequeued.
func (q *InMemoryQueue) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
