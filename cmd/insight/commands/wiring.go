package commands

import (
	"context"
	"fmt"

	"github.com/kognisi/insight/internal/pipeline"
	"github.com/kognisi/insight/internal/roster"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/internal/source"
	"github.com/kognisi/insight/internal/source/discovery"
	"github.com/kognisi/insight/internal/source/manual"
	"github.com/kognisi/insight/internal/source/mykg"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/database"
	"github.com/kognisi/insight/pkg/httputil"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/sheets"
)

// stack bundles the wired pipeline for one command invocation.
// SSOT: source and roster wiring happens in buildStack only.
type stack struct {
	pipeline *pipeline.Pipeline
	store    *snapshot.Store
	closers  []func()
}

// close releases connections in reverse wiring order
func (s *stack) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildStack connects every configured source and assembles the
// pipeline and snapshot store. An unconfigured platform database is
// skipped; a configured but unreachable one still gets a reader so the
// failure shows up as a per-run source error instead of blocking
// startup.
func buildStack(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stack, error) {
	s := &stack{}

	// 1. HTTP + Sheets clients (roster always needs one of them)
	httpClient := httputil.New(log)

	sheetsClient, err := sheets.New(ctx, cfg.Sheets, httpClient, log)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	// 2. Platform database sources
	var sources []source.EventSource

	if cfg.MyKG.URL != "" {
		db, err := database.New(cfg.MyKG)
		if err != nil {
			log.WithError(err).Error("MyKG database unreachable, source will report errors")
			db = nil
		} else {
			s.closers = append(s.closers, db.Close)
		}
		sources = append(sources, mykg.NewReader(db, log))
	} else {
		log.Warn("MYKG_DATABASE_URL not set, MyKG source disabled")
	}

	if cfg.Discovery.URL != "" {
		db, err := database.New(cfg.Discovery)
		if err != nil {
			log.WithError(err).Error("Discovery database unreachable, source will report errors")
			db = nil
		} else {
			s.closers = append(s.closers, db.Close)
		}
		sources = append(sources, discovery.NewReader(db, log))
	} else {
		log.Warn("DISCOVERY_DATABASE_URL not set, Discovery source disabled")
	}

	// 3. Manual upload sheet source
	if cfg.Sheets.ManualSpreadsheet != "" {
		sources = append(sources, manual.NewReader(sheetsClient, cfg.Sheets, log))
	}

	if len(sources) == 0 {
		log.Warn("No event sources configured, reports will only show roster coverage")
	}

	// 4. Roster loader + pipeline + snapshot store
	rosterLoader := roster.NewReader(sheetsClient, cfg.Sheets, log)

	s.pipeline = pipeline.New(sources, rosterLoader, log)
	s.store = snapshot.NewStore(s.pipeline, cfg.SnapshotTTL, log)
	s.closers = append(s.closers, s.store.Stop)

	return s, nil
}
