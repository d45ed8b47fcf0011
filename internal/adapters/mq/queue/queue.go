// Package queue carries parameter changes from request handlers to the
// recompute worker in arrival order.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Change is one submitted parameter state. Seq increases by one per accepted
// submission, so it orders changes globally.
type Change struct {
	ID          string
	Seq         uint64
	Params      model.Params
	SubmittedAt time.Time
}

// Queue provides non-blocking submission and channel-based consumption.
type Queue interface {
	// Submit assigns an ID and sequence number to p and enqueues it.
	// Returns ErrQueueFull or ErrQueueClosed when the change is rejected.
	Submit(ctx context.Context, p model.Params) (Change, error)

	// Dequeue returns a channel delivering changes in submission order.
	// The channel is closed after Close once the backlog is drained.
	Dequeue(ctx context.Context) <-chan Change

	// Len returns the number of pending changes.
	Len(ctx context.Context) int

	// Close stops accepting submissions.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	changes  chan Change
	capacity int
	newID    func() string

	mu     sync.Mutex
	seq    uint64
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		newID:    func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(q)
	}

	q.changes = make(chan Change, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Submit implements Queue. Sequence assignment and the channel send happen
// under one lock so channel order always equals Seq order.
func (q *InMemoryQueue) Submit(ctx context.Context, p model.Params) (Change, error) {
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return Change{}, fmt.Errorf("submit: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return Change{}, ErrQueueClosed
	}

	c := Change{ID: q.newID(), Seq: q.seq + 1, Params: p, SubmittedAt: time.Now()}
	select {
	case q.changes <- c:
		q.seq = c.Seq
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.changes))
		return c, nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return Change{}, ErrQueueFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Change {
	out := make(chan Change)
	go func() {
		defer close(out)
		for c := range q.changes {
			select {
			case out <- c:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.changes))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.changes)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close implements Queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.changes)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
