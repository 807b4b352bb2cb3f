// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"

	"github.com/kognisi/insight/internal/api/ws"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
)

// SnapshotRefreshJob rebuilds the dataset snapshot on a fixed cadence
// so dashboard reads stay warm and never pay the full pipeline cost.
type SnapshotRefreshJob struct {
	store  *snapshot.Store
	hub    *ws.Hub
	logger *logger.Logger
}

// NewSnapshotRefreshJob creates the snapshot refresh job
func NewSnapshotRefreshJob(store *snapshot.Store, hub *ws.Hub, log *logger.Logger) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		store:  store,
		hub:    hub,
		logger: log.WithField("job", "snapshot_refresh"),
	}
}

// Name returns the job name
func (j *SnapshotRefreshJob) Name() string {
	return "snapshot_refresh"
}

// Schedule runs at the top of every hour
func (j *SnapshotRefreshJob) Schedule() string {
	return "0 0 * * * *"
}

// Run rebuilds the snapshot and notifies connected clients
func (j *SnapshotRefreshJob) Run(ctx context.Context) error {
	ds, err := j.store.Refresh(ctx)
	if err != nil {
		return err
	}

	if j.hub != nil {
		j.hub.Broadcast(ws.Event{
			Type:       "snapshot_refreshed",
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
		})
	}

	if ds.Degraded() {
		j.logger.WithField("failed_sources", len(ds.SourceErrors)).Warn("Scheduled refresh completed degraded")
	}

	return nil
}
