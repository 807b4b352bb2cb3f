// Package reconcile joins identity-resolved learning events against the
// HR roster and produces the two complementary classified views every
// report consumes: the event-level Internal/External table and the
// roster-level Active/Passive coverage table.
package reconcile

import (
	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/identity"
)

// Left performs the event-side join: every learning event is resolved
// and kept, annotated with the matched roster member (if any) and an
// Internal/External status. Output row count always equals input row
// count.
func Left(events []contracts.LearningEvent, resolver *identity.Resolver) []contracts.ReconciledRecord {
	records := make([]contracts.ReconciledRecord, 0, len(events))

	for _, ev := range events {
		id, member := resolver.Resolve(ev)

		status := contracts.StatusExternal
		if member != nil {
			status = contracts.StatusInternal
		}

		records = append(records, contracts.ReconciledRecord{
			Event:    ev,
			Identity: id,
			Member:   member,
			Status:   status,
		})
	}

	return records
}

// Right performs the roster-side join: every roster member is kept and
// classified Active (at least one event resolved to them) or Passive
// (none). Output row count always equals roster row count, so
// Active + Passive partitions the full employee population.
func Right(roster []contracts.RosterMember, records []contracts.ReconciledRecord) []contracts.CoverageRecord {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Status == contracts.StatusInternal {
			counts[rec.Identity.Key]++
		}
	}

	coverage := make([]contracts.CoverageRecord, 0, len(roster))
	for _, m := range roster {
		key := identity.NormalizeEmployeeID(m.EmployeeID)
		n := counts[key]

		status := contracts.CoveragePassive
		if n > 0 {
			status = contracts.CoverageActive
		}

		coverage = append(coverage, contracts.CoverageRecord{
			Member:     m,
			EventCount: n,
			Status:     status,
		})
	}

	return coverage
}
