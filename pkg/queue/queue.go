package queue

// Queue represents a basic queue.
type Queue interface {
	// Enqueue adds an item without blocking. It fails if the queue is
	// full or closed.
	Enqueue(item interface{}) error
	// Dequeue blocks until an item is available or the queue is closed.
	Dequeue() (interface{}, error)
	Size() int
	Close()
}
