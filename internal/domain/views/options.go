package views

import (
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMajorEntities sets the entities shown in the multi-entity series and
// composition views.
func WithMajorEntities(entities []string) Option {
	return func(e *Engine) {
		if len(entities) > 0 {
			e.majorEntities = append([]string(nil), entities...)
		}
	}
}

// WithMajorMinYear sets the first year kept in the major-entities table.
func WithMajorMinYear(year int) Option {
	return func(e *Engine) {
		e.majorMinYear = year
	}
}

// WithCatalog sets the metric catalog.
func WithCatalog(c *metric.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithSnapshotCacheSize bounds the number of cached focus-year snapshots.
// A size <= 0 leaves the cache unbounded.
func WithSnapshotCacheSize(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
