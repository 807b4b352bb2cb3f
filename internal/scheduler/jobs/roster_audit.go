package jobs

import (
	"context"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
)

// RosterAuditJob reports roster hygiene once a day: duplicate IDs,
// unmatched learner volume, and source health. The numbers surface in
// the logs where the HR data owners can act on them.
type RosterAuditJob struct {
	store  *snapshot.Store
	logger *logger.Logger
}

// NewRosterAuditJob creates the roster audit job
func NewRosterAuditJob(store *snapshot.Store, log *logger.Logger) *RosterAuditJob {
	return &RosterAuditJob{
		store:  store,
		logger: log.WithField("job", "roster_audit"),
	}
}

// Name returns the job name
func (j *RosterAuditJob) Name() string {
	return "roster_audit"
}

// Schedule runs daily at 06:00
func (j *RosterAuditJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run audits the current dataset's identity health
func (j *RosterAuditJob) Run(ctx context.Context) error {
	ds, err := j.store.Get(ctx)
	if err != nil {
		return err
	}

	var internal, external, unmatched int
	for _, rec := range ds.Events {
		switch rec.Status {
		case contracts.StatusInternal:
			internal++
		default:
			external++
			if rec.Identity.Basis == contracts.MatchNone {
				unmatched++
			}
		}
	}

	var active, passive int
	for _, c := range ds.Coverage {
		if c.Status == contracts.CoverageActive {
			active++
		} else {
			passive++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"roster":           len(ds.Roster),
		"events_internal":  internal,
		"events_external":  external,
		"events_unmatched": unmatched,
		"members_active":   active,
		"members_passive":  passive,
		"roster_warnings":  len(ds.Warnings),
		"failed_sources":   len(ds.SourceErrors),
	}).Info("Roster audit")

	for _, warning := range ds.Warnings {
		j.logger.WithField("warning", warning).Warn("Roster data issue")
	}

	return nil
}
