package metrics

import (
	"sort"

	"github.com/kognisi/insight/internal/contracts"
)

// AdoptionRow is one breakdown group's learning-adoption numbers.
// Flagged marks a group whose roster population was empty, where the
// percentage is reported as 0 instead of dividing by zero.
type AdoptionRow struct {
	Group      string  `json:"group"`
	Active     int     `json:"active"`
	Passive    int     `json:"passive"`
	ActivePct  float64 `json:"active_pct"`
	PassivePct float64 `json:"passive_pct"`
	Flagged    bool    `json:"flagged,omitempty"`
}

// AdoptionReport is the learning-adoption view for one breakdown
// dimension.
type AdoptionReport struct {
	Dimension   contracts.Dimension `json:"dimension"`
	Rows        []AdoptionRow       `json:"rows"`
	ActiveTotal int                 `json:"active_total"`
	MemberTotal int                 `json:"member_total"`
	OverallPct  float64             `json:"overall_pct"`
}

// Adoption computes adoption rate per breakdown group: distinct active
// learners over the full roster population of the group (active +
// passive), times 100. Groups come from the roster coverage view, so
// groups with zero event activity still appear. Rows are sorted by
// group name for deterministic output.
func Adoption(records []contracts.ReconciledRecord, coverage []contracts.CoverageRecord, w Window, dim contracts.Dimension) AdoptionReport {
	// Distinct in-window active keys per group, from internal events
	activeKeys := make(map[string]map[string]bool)
	for _, rec := range records {
		if rec.Status != contracts.StatusInternal || rec.Member == nil {
			continue
		}
		if !w.Contains(rec.Event.EventDate) {
			continue
		}
		group := rec.Member.Attr(dim)
		keys := activeKeys[group]
		if keys == nil {
			keys = make(map[string]bool)
			activeKeys[group] = keys
		}
		keys[rec.Identity.Key] = true
	}

	// Roster population per group
	population := make(map[string]int)
	for _, c := range coverage {
		population[c.Member.Attr(dim)]++
	}

	// Union of groups; a group can show up in events only when the
	// roster slice was filtered more narrowly than the event slice.
	groups := make(map[string]bool)
	for g := range activeKeys {
		groups[g] = true
	}
	for g := range population {
		groups[g] = true
	}

	report := AdoptionReport{Dimension: dim}
	for g := range groups {
		active := len(activeKeys[g])
		total := population[g]
		passive := total - active
		if passive < 0 {
			passive = 0
		}

		row := AdoptionRow{Group: g, Active: active, Passive: passive}
		denom := active + passive
		if denom > 0 {
			row.ActivePct = float64(active) / float64(denom) * 100
			row.PassivePct = float64(passive) / float64(denom) * 100
		} else {
			row.Flagged = true
		}

		report.Rows = append(report.Rows, row)
		report.ActiveTotal += active
		report.MemberTotal += active + passive
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Group < report.Rows[j].Group
	})

	if report.MemberTotal > 0 {
		report.OverallPct = float64(report.ActiveTotal) / float64(report.MemberTotal) * 100
	}

	return report
}
