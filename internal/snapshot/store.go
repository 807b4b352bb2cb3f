// Package snapshot holds the current reconciled dataset in memory and
// keeps it fresh. Readers always see one immutable dataset; a refresh
// builds the next dataset fully before swapping it in.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/pkg/logger"
)

const datasetKey = "dataset"

// Runner produces a fresh dataset. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) (*contracts.Dataset, error)
}

// Store memoizes the latest dataset with a TTL. An expired entry is
// rebuilt on the next Get; concurrent callers coalesce onto a single
// rebuild.
type Store struct {
	runner Runner
	cache  *ttlcache.Cache[string, *contracts.Dataset]
	ttl    time.Duration
	logger *logger.Logger

	// refreshMu serializes rebuilds so a burst of cold readers triggers
	// exactly one pipeline run.
	refreshMu sync.Mutex
}

// NewStore creates a snapshot store over the given pipeline runner.
func NewStore(runner Runner, ttl time.Duration, log *logger.Logger) *Store {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *contracts.Dataset](ttl),
		ttlcache.WithDisableTouchOnHit[string, *contracts.Dataset](),
	)
	go cache.Start()

	return &Store{
		runner: runner,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithField("module", "snapshot"),
	}
}

// Get returns the current dataset, rebuilding it if the cached one has
// expired or none exists yet.
func (s *Store) Get(ctx context.Context) (*contracts.Dataset, error) {
	if item := s.cache.Get(datasetKey); item != nil {
		return item.Value(), nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have finished the rebuild while we waited.
	if item := s.cache.Get(datasetKey); item != nil {
		return item.Value(), nil
	}

	return s.rebuild(ctx)
}

// Refresh forces a rebuild and atomically replaces the cached dataset.
// The previous dataset stays visible to readers until the new one is
// complete; a failed rebuild leaves it untouched.
func (s *Store) Refresh(ctx context.Context) (*contracts.Dataset, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.rebuild(ctx)
}

// Current returns the cached dataset without triggering a rebuild, or
// nil when none is loaded.
func (s *Store) Current() *contracts.Dataset {
	if item := s.cache.Get(datasetKey); item != nil {
		return item.Value()
	}
	return nil
}

// Stop shuts down the cache's expiry loop.
func (s *Store) Stop() {
	s.cache.Stop()
}

func (s *Store) rebuild(ctx context.Context) (*contracts.Dataset, error) {
	start := time.Now()

	ds, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Snapshot rebuild failed, keeping previous dataset")
		return nil, fmt.Errorf("snapshot rebuild failed: %w", err)
	}

	s.cache.Set(datasetKey, ds, s.ttl)

	s.logger.WithFields(map[string]interface{}{
		"events":     len(ds.Events),
		"roster":     len(ds.Roster),
		"degraded":   ds.Degraded(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Snapshot refreshed")

	return ds, nil
}
