package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type entry[V any] struct {
	view     V
	lastUsed time.Time
}

type viewStorage[V any] struct {
	idleTimeout time.Duration
	now         func() time.Time
	log         zerolog.Logger

	mu    sync.Mutex
	views map[string]*entry[V]

	open    prometheus.Gauge
	expired prometheus.Counter
}

var _ service.ViewStorage[struct{}] = &viewStorage[struct{}]{}

func (s *viewStorage[V]) Add(v V) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := shortuuid.New()
	s.views[id] = &entry[V]{view: v, lastUsed: s.now()}
	s.open.Set(float64(len(s.views)))

	return id, nil
}

// Get returns the view and marks it as used.
func (s *viewStorage[V]) Get(id string) (V, error) {
	const op errs.Op = "viewStorage.Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.views[id]
	if !ok {
		var zero V
		return zero, errs.E(errs.NotExist, op, errs.Parameter("view_id"), fmt.Errorf("view %s not found", id))
	}

	e.lastUsed = s.now()

	return e.view, nil
}

func (s *viewStorage[V]) Delete(id string) error {
	const op errs.Op = "viewStorage.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.views[id]; !ok {
		return errs.E(errs.NotExist, op, errs.Parameter("view_id"), fmt.Errorf("view %s not found", id))
	}

	delete(s.views, id)
	s.open.Set(float64(len(s.views)))

	return nil
}

func (s *viewStorage[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.views)
}

// Expire removes every view that has been idle longer than the idle timeout
// and returns how many were removed.
func (s *viewStorage[V]) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTimeout)
	removed := 0

	for id, e := range s.views {
		if e.lastUsed.Before(cutoff) {
			delete(s.views, id)
			removed++
		}
	}

	s.open.Set(float64(len(s.views)))
	s.expired.Add(float64(removed))

	return removed
}

// Run expires idle views every interval until ctx is done.
func (s *viewStorage[V]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Expire(); n > 0 {
				s.log.Info().Int("expired", n).Int("open", s.Len()).Msg("expired idle views")
			}
		}
	}
}

func (s *viewStorage[V]) Metrics() []prometheus.Collector {
	return []prometheus.Collector{s.open, s.expired}
}

type Option[V any] func(*viewStorage[V])

// WithClock replaces time.Now, mostly useful for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *viewStorage[V]) {
		s.now = now
	}
}

func NewViewStorage[V any](idleTimeout time.Duration, log zerolog.Logger, opts ...Option[V]) *viewStorage[V] {
	s := &viewStorage[V]{
		idleTimeout: idleTimeout,
		now:         time.Now,
		log:         log,
		views:       map[string]*entry[V]{},
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gds_console",
			Name:      "open_views",
			Help:      "Number of datashare views held in memory.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gds_console",
			Name:      "expired_views_total",
			Help:      "Datashare views removed after being idle.",
		}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
