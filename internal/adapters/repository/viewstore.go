package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/carbonview/internal/domain/views"
	"github.com/okian/carbonview/pkg/metrics"
)

// Published is a view set together with the sequence number of the
// parameter change that produced it.
type Published struct {
	Seq         uint64
	Set         *views.ViewSet
	PublishedAt time.Time
}

// ViewStore keeps the last-result-wins view set. A publish with a sequence
// number not greater than the current one is ignored, so a slow stale
// recomputation can never overwrite a newer result.
type ViewStore struct {
	mu     sync.RWMutex
	latest *Published
	now    func() time.Time
}

// NewViewStore creates an empty ViewStore.
func NewViewStore(opts ...Option) *ViewStore {
	s := &ViewStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish stores set under seq. It returns false when seq is stale.
func (s *ViewStore) Publish(_ context.Context, seq uint64, set *views.ViewSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && seq <= s.latest.Seq {
		return false
	}
	s.latest = &Published{Seq: seq, Set: set, PublishedAt: s.now()}
	metrics.UpdateLatestSeq(seq)
	return true
}

// Latest returns the most recently published view set or ErrNoViews.
func (s *ViewStore) Latest(_ context.Context) (Published, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return Published{}, ErrNoViews
	}
	return *s.latest, nil
}
