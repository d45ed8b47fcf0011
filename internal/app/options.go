package service

import (
	"time"

	"github.com/okian/carbonview/internal/adapters/loader"
	"github.com/okian/carbonview/internal/config"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the dataset sources. Names must be the normalize dataset
// names.
func WithSources(sources ...loader.Source) Option {
	return func(s *Service) {
		if len(sources) > 0 {
			s.sources = sources
		}
	}
}

// WithLoader sets the dataset loader.
func WithLoader(l *loader.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithFetchTimeout bounds each remote dataset fetch of the default loader.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithMajorEntities sets the comparison entities.
func WithMajorEntities(entities []string) Option {
	return func(s *Service) {
		if len(entities) > 0 {
			s.majorEntities = entities
		}
	}
}

// WithMajorMinYear sets the first year kept for the comparison entities.
func WithMajorMinYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.majorMinYear = year
		}
	}
}

// WithSnapshotCacheSize bounds the focus-year snapshot cache.
func WithSnapshotCacheSize(size int) Option {
	return func(s *Service) {
		s.snapshotCacheSize = size
	}
}

// WithQueueSize sets the maximum number of pending parameter changes.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMetricBounds overrides color-scale maxima per metric id.
func WithMetricBounds(bounds map[string]float64) Option {
	return func(s *Service) {
		s.metricBounds = bounds
	}
}

// WithDefaultParams sets the parameter state published at startup and used
// to fill in partial requests.
func WithDefaultParams(p model.Params) Option {
	return func(s *Service) {
		s.defaults = p
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig applies every service setting carried by cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		for _, opt := range []Option{
			WithSources(cfg.Sources()...),
			WithMajorEntities(cfg.MajorEntities),
			WithMajorMinYear(cfg.MajorMinYear),
			WithSnapshotCacheSize(cfg.SnapshotCacheSize),
			WithQueueSize(cfg.ParamQueueSize),
			WithMetricBounds(cfg.MetricMax),
			WithDefaultParams(cfg.DefaultParams()),
			WithFetchTimeout(cfg.FetchTimeout()),
		} {
			opt(s)
		}
	}
}
