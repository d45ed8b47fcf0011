// Package worker applies queued parameter changes one at a time and
// publishes the resulting view sets.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/carbonview/internal/adapters/mq/queue"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
	"github.com/okian/carbonview/pkg/logger"
	"github.com/okian/carbonview/pkg/metrics"
)

// Recomputer derives a view set from a parameter state.
type Recomputer interface {
	Recompute(ctx context.Context, p model.Params) (*views.ViewSet, error)
}

// Publisher stores successful results. It returns false for stale seqs.
type Publisher interface {
	Publish(ctx context.Context, seq uint64, set *views.ViewSet) bool
}

// Queue defines how the worker receives changes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Change
}

// Stats are the worker's lifetime counters.
type Stats struct {
	Processed uint64 `json:"processed"`
	Published uint64 `json:"published"`
	Failed    uint64 `json:"failed"`
	LastSeq   uint64 `json:"last_seq"`
}

// InMemoryWorker consumes changes strictly in arrival order. A failed
// recomputation is logged and leaves the published set untouched.
type InMemoryWorker struct {
	queue     Queue
	engine    Recomputer
	publisher Publisher
	name      string
	hook      func(queue.Change, error)

	processed atomic.Uint64
	published atomic.Uint64
	failed    atomic.Uint64
	lastSeq   atomic.Uint64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, engine Recomputer, publisher Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		engine:    engine,
		publisher: publisher,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)

	return w
}

// Run processes changes until the queue is drained and closed, ctx is
// cancelled or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	changes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			err := w.process(ctx, c)
			if w.hook != nil {
				w.hook(c, err)
			}
		}
	}
}

// Shutdown stops the worker and waits for the in-flight change.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Stats returns a copy of the worker counters.
func (w *InMemoryWorker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Published: w.published.Load(),
		Failed:    w.failed.Load(),
		LastSeq:   w.lastSeq.Load(),
	}
}

func (w *InMemoryWorker) process(ctx context.Context, c queue.Change) error {
	start := time.Now()
	defer func() {
		w.processed.Add(1)
		w.lastSeq.Store(c.Seq)
	}()

	set, err := w.engine.Recompute(ctx, c.Params)
	if err != nil {
		w.failed.Add(1)
		metrics.RecordErrorByType("recompute_error", "low")
		w.logger.Error(ctx, "recompute failed",
			logger.String("change_id", c.ID),
			logger.Uint64("seq", c.Seq),
			logger.String("metric", c.Params.Metric),
			logger.String("country", c.Params.Country),
			logger.Error(err))
		return fmt.Errorf("change %s: %w", c.ID, err)
	}

	if w.publisher.Publish(ctx, c.Seq, set) {
		w.published.Add(1)
	}
	w.logger.Debug(ctx, "change applied",
		logger.String("change_id", c.ID),
		logger.Uint64("seq", c.Seq),
		logger.Duration("took", time.Since(start)))
	return nil
}
