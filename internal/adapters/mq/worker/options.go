package worker

import (
	"github.com/okian/carbonview/internal/adapters/mq/queue"
	"github.com/okian/carbonview/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultHook registers a callback invoked after every processed change
// with its recompute error, if any.
func WithResultHook(hook func(c queue.Change, err error)) Option {
	return func(w *InMemoryWorker) {
		w.hook = hook
	}
}
