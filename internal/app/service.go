// Package service wires the dataset pipeline, the view engine and the
// parameter queue into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/carbonview/internal/adapters/loader"
	"github.com/okian/carbonview/internal/adapters/mq/queue"
	"github.com/okian/carbonview/internal/adapters/mq/worker"
	"github.com/okian/carbonview/internal/adapters/repository"
	"github.com/okian/carbonview/internal/domain/metric"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/normalize"
	"github.com/okian/carbonview/internal/domain/shares"
	"github.com/okian/carbonview/internal/domain/types"
	"github.com/okian/carbonview/internal/domain/views"
	"github.com/okian/carbonview/pkg/logger"
	"github.com/okian/carbonview/pkg/metrics"
)

const stopTimeout = 5 * time.Second

// Service owns the loaded datasets and the recompute pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader   *loader.Loader
	datasets *repository.MemStore
	viewsets *repository.ViewStore
	engine   *views.Engine
	queue    *queue.InMemoryQueue
	worker   *worker.InMemoryWorker

	// Configuration
	sources           []loader.Source
	majorEntities     []string
	majorMinYear      int
	snapshotCacheSize int
	queueSize         int
	fetchTimeout      time.Duration
	metricBounds      map[string]float64
	defaults          model.Params

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Sources must be supplied with WithSources
// before Start.
func New(opts ...Option) *Service {
	s := &Service{
		majorEntities:     views.DefaultMajorEntities,
		majorMinYear:      1941,
		snapshotCacheSize: 64,
		queueSize:         1024,
		defaults: model.Params{
			Metric:    model.CO2,
			Years:     model.YearRange{Min: 1950, Max: 2020},
			Country:   "United States",
			FocusYear: 2018,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads and normalizes every dataset, builds the view engine, starts
// the parameter worker and publishes the default view set.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		s.loader = loader.New(loader.WithLogger(s.logger), loader.WithTimeout(s.fetchTimeout))
	}

	s.logger.Info(ctx, "starting carbonview service...", logger.Int("sources", len(s.sources)))

	raws, err := s.loader.LoadAll(ctx, s.sources...)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	snap, err := s.normalize(ctx, raws)
	if err != nil {
		return err
	}
	s.datasets = repository.NewMemStore()
	s.datasets.Publish(ctx, snap)

	s.engine = views.New(
		views.Tables{Emissions: snap.Emissions, Mix: snap.Mix},
		views.WithMajorEntities(s.majorEntities),
		views.WithMajorMinYear(s.majorMinYear),
		views.WithSnapshotCacheSize(s.snapshotCacheSize),
		views.WithCatalog(metric.NewCatalog(metric.WithBoundsFromConfig(s.metricBounds))),
		views.WithLogger(s.logger.Named("views")),
	)
	s.viewsets = repository.NewViewStore()
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s.engine, s.viewsets,
		worker.WithName("params"),
		worker.WithLogger(s.logger),
	)

	// The worker outlives Start's ctx; Stop cancels it.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker.Run(runCtx)

	if set, err := s.engine.Recompute(ctx, s.defaults); err != nil {
		s.logger.Warn(ctx, "default view set not published",
			logger.Error(err),
			logger.Any("params", s.defaults),
		)
	} else {
		s.viewsets.Publish(ctx, 0, set)
	}

	s.started = true
	s.logger.Info(ctx, "carbonview service started",
		logger.Int("emissions_rows", snap.Emissions.Len()),
		logger.Int("mix_rows", snap.Mix.Len()),
		logger.Int("observations", len(snap.Observatory)),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

func (s *Service) normalize(ctx context.Context, raws map[string]model.RawTable) (*repository.Snapshot, error) {
	snap := &repository.Snapshot{}

	emissions, report, err := normalize.Normalize(raws[normalize.DatasetEmissions], normalize.EmissionsSpec())
	if err != nil {
		return nil, fmt.Errorf("normalize emissions: %w", err)
	}
	s.logReport(ctx, report)
	snap.Reports = append(snap.Reports, report)
	snap.Emissions = emissions

	mix, report, err := normalize.Normalize(raws[normalize.DatasetEnergyMix], normalize.EnergyMixSpec())
	if err != nil {
		return nil, fmt.Errorf("normalize energy mix: %w", err)
	}
	s.logReport(ctx, report)
	snap.Reports = append(snap.Reports, report)
	snap.Mix, err = shares.EnergyMix(mix)
	if err != nil {
		return nil, fmt.Errorf("energy mix shares: %w", err)
	}

	if raw, ok := raws[normalize.DatasetObservatory]; ok {
		obs, report, err := normalize.NormalizeObservations(raw, normalize.ObservatorySpec())
		if err != nil {
			return nil, fmt.Errorf("normalize observatory: %w", err)
		}
		s.logReport(ctx, report)
		snap.Reports = append(snap.Reports, report)
		snap.Observatory = obs
	}

	return snap, nil
}

func (s *Service) logReport(ctx context.Context, r normalize.Report) {
	metrics.RecordRowsSkipped(r.Dataset, "invalid", r.Invalid)
	metrics.RecordRowsSkipped(r.Dataset, "dropped", r.Dropped)
	metrics.RecordRowsSkipped(r.Dataset, "filtered", r.Filtered)

	s.logger.Info(ctx, "dataset normalized",
		logger.String("dataset", r.Dataset),
		logger.Int("rows", r.Rows),
		logger.Int("kept", r.Kept),
		logger.Int("invalid", r.Invalid),
		logger.Int("dropped", r.Dropped),
		logger.Int("filtered", r.Filtered),
	)
	for _, sample := range r.Samples {
		s.logger.Debug(ctx, "row skipped", logger.String("dataset", r.Dataset), logger.Error(sample))
	}
}

// Stop drains the worker and releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping carbonview service...")

	_ = s.queue.Close()
	select {
	case <-s.worker.Done():
	case <-ctx.Done():
		s.logger.Warn(ctx, "worker did not drain before timeout")
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "carbonview service stopped")
}

func (s *Service) ready() (*views.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.engine, nil
}

// DefaultParams returns the parameter state published at startup.
func (s *Service) DefaultParams() model.Params { return s.defaults }

// Recompute derives a view set synchronously.
func (s *Service) Recompute(ctx context.Context, p model.Params) (*views.ViewSet, error) {
	engine, err := s.ready()
	if err != nil {
		return nil, err
	}
	return engine.Recompute(ctx, p)
}

// Submit validates p and enqueues it for the worker.
func (s *Service) Submit(ctx context.Context, p model.Params) (queue.Change, error) {
	engine, err := s.ready()
	if err != nil {
		return queue.Change{}, err
	}
	if _, err := engine.Validate(p); err != nil {
		return queue.Change{}, err
	}

	c, err := s.queue.Submit(ctx, p)
	if err != nil {
		return queue.Change{}, err
	}
	s.logger.Debug(ctx, "parameter change queued",
		logger.String("id", c.ID),
		logger.Uint64("seq", c.Seq),
	)
	return c, nil
}

// Latest returns the most recently published view set.
func (s *Service) Latest(ctx context.Context) (repository.Published, error) {
	if _, err := s.ready(); err != nil {
		return repository.Published{}, err
	}
	return s.viewsets.Latest(ctx)
}

// Options lists the selectable parameter values.
func (s *Service) Options(_ context.Context) (types.Options, error) {
	engine, err := s.ready()
	if err != nil {
		return types.Options{}, err
	}
	return types.Options{
		Metrics:       engine.Catalog().All(),
		Countries:     engine.Countries(),
		MajorEntities: engine.MajorEntities(),
		Years:         engine.Years(),
		Defaults:      s.defaults,
	}, nil
}

// Observatory returns the daily observatory series.
func (s *Service) Observatory(ctx context.Context) ([]model.Observation, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	snap, err := s.datasets.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Observatory, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"queueSize": s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["worker"] = s.worker.Stats()
		metrics.UpdateQueueSize(queueLen)

		if snap, err := s.datasets.Snapshot(ctx); err == nil {
			stats["emissionsRows"] = snap.Emissions.Len()
			stats["mixRows"] = snap.Mix.Len()
			stats["observations"] = len(snap.Observatory)
			stats["loadedAt"] = snap.LoadedAt
		}
		if p, err := s.viewsets.Latest(ctx); err == nil {
			stats["latestSeq"] = p.Seq
		} else if !errors.Is(err, repository.ErrNoViews) {
			stats["latestError"] = err.Error()
		}
	}

	return stats
}
