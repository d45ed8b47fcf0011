package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending changes.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithIDGenerator overrides how change IDs are produced.
func WithIDGenerator(gen func() string) Option {
	return func(q *InMemoryQueue) {
		if gen != nil {
			q.newID = gen
		}
	}
}
