// Package repository holds the in-memory state shared by readers: the
// canonical dataset snapshot and the most recently published view set.
package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/normalize"
	"github.com/okian/carbonview/internal/domain/shares"
	"github.com/okian/carbonview/pkg/metrics"
)

// Snapshot is the immutable set of canonical tables built at startup.
type Snapshot struct {
	Emissions   model.Table
	Mix         shares.Table
	Observatory []model.Observation
	Reports     []normalize.Report
	LoadedAt    time.Time
}

// DatasetStore provides the current dataset snapshot.
type DatasetStore interface {
	// Snapshot returns the published snapshot or ErrNotLoaded.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// MemStore publishes a Snapshot through an atomic pointer. Readers never
// block and always see a complete snapshot.
type MemStore struct {
	snapshot atomic.Pointer[Snapshot]
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore { return &MemStore{} }

// Publish replaces the current snapshot. The caller must not modify snap
// afterwards.
func (s *MemStore) Publish(_ context.Context, snap *Snapshot) {
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now()
	}
	s.snapshot.Store(snap)
	metrics.UpdateRowsKept(normalize.DatasetEmissions, snap.Emissions.Len())
	metrics.UpdateRowsKept(normalize.DatasetEnergyMix, snap.Mix.Len())
	metrics.UpdateRowsKept(normalize.DatasetObservatory, len(snap.Observatory))
}

// Snapshot implements DatasetStore.
func (s *MemStore) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}
