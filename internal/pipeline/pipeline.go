// Package pipeline runs one full reconciliation pass: fetch every
// event source and the roster, resolve identities, and join both ways
// into an immutable dataset snapshot.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/identity"
	"github.com/kognisi/insight/internal/reconcile"
	"github.com/kognisi/insight/internal/roster"
	"github.com/kognisi/insight/internal/source"
	"github.com/kognisi/insight/pkg/logger"
)

// fetchResult carries one source's outcome back from its worker.
type fetchResult struct {
	name   string
	events []contracts.LearningEvent
	err    error
}

// Pipeline orchestrates the fetch-resolve-join sequence.
type Pipeline struct {
	sources []source.EventSource
	roster  roster.Loader
	logger  *logger.Logger
}

// New creates a pipeline over the given event sources and roster loader.
func New(sources []source.EventSource, rosterLoader roster.Loader, log *logger.Logger) *Pipeline {
	return &Pipeline{
		sources: sources,
		roster:  rosterLoader,
		logger:  log.WithField("module", "pipeline"),
	}
}

// Run executes one reconciliation pass and returns the dataset.
//
// A failed event source does not fail the run: it contributes an empty
// table and its error is recorded on the dataset. A failed roster load
// degrades the run to an empty roster, which makes every event External
// and every coverage table empty. Run only returns an error when the
// context is cancelled.
func (p *Pipeline) Run(ctx context.Context) (*contracts.Dataset, error) {
	start := time.Now()

	// 1. Fetch all event sources concurrently
	resultCh := make(chan fetchResult, len(p.sources))

	var wg sync.WaitGroup
	for _, src := range p.sources {
		wg.Add(1)
		go func(src source.EventSource) {
			defer wg.Done()
			events, err := src.Fetch(ctx)
			resultCh <- fetchResult{name: src.Name(), events: events, err: err}
		}(src)
	}

	// Roster load runs alongside the sources
	var (
		members   []contracts.RosterMember
		rosterErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		members, rosterErr = p.roster.Load(ctx)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// 2. Collect results with per-source error isolation
	ds := &contracts.Dataset{
		FetchedAt:    time.Now().UTC(),
		SourceErrors: make(map[string]string),
	}

	var events []contracts.LearningEvent
	results := make([]fetchResult, 0, len(p.sources))
	for result := range resultCh {
		results = append(results, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Deterministic event order regardless of goroutine scheduling
	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })

	for _, result := range results {
		if result.err != nil {
			p.logger.WithFields(map[string]interface{}{
				"source": result.name,
				"error":  result.err.Error(),
			}).Error("Source fetch failed, continuing with empty table")
			ds.SourceErrors[result.name] = result.err.Error()
			continue
		}
		p.logger.WithFields(map[string]interface{}{
			"source": result.name,
			"events": len(result.events),
		}).Info("Source fetched")
		events = append(events, result.events...)
	}

	if rosterErr != nil {
		p.logger.WithError(rosterErr).Error("Roster load failed, continuing with empty roster")
		ds.SourceErrors["roster"] = rosterErr.Error()
		members = nil
	}
	ds.Roster = members

	// 3. Build the identity index and resolve both joins
	resolver := identity.NewResolver(members)
	ds.Warnings = append(ds.Warnings, resolver.Warnings()...)

	ds.Events = reconcile.Left(events, resolver)
	ds.Coverage = reconcile.Right(members, ds.Events)

	p.logger.WithFields(map[string]interface{}{
		"events":     len(ds.Events),
		"roster":     len(ds.Roster),
		"sources":    len(p.sources),
		"failed":     len(ds.SourceErrors),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Reconciliation pass completed")

	return ds, nil
}
