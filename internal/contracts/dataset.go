package contracts

import "time"

// EventStatus classifies one reconciled event.
type EventStatus string

const (
	StatusInternal EventStatus = "Internal"
	StatusExternal EventStatus = "External"
)

// CoverageStatus classifies one roster member by learning activity.
type CoverageStatus string

const (
	CoverageActive  CoverageStatus = "Active"
	CoveragePassive CoverageStatus = "Passive"
)

// ReconciledRecord is one learning event joined with its matched roster
// member (left join: every event is kept, Member is nil when none
// matched).
type ReconciledRecord struct {
	Event    LearningEvent    `json:"event"`
	Identity ResolvedIdentity `json:"identity"`
	Member   *RosterMember    `json:"member,omitempty"`
	Status   EventStatus      `json:"status"`
}

// CoverageRecord is one roster member joined with their matched event
// presence (right join: every member is kept, even with zero events).
type CoverageRecord struct {
	Member     RosterMember   `json:"member"`
	EventCount int            `json:"event_count"`
	Status     CoverageStatus `json:"status"`
}

// Dataset is the complete output of one pipeline run. It is built once
// and never mutated; a refresh produces a new Dataset and swaps it in
// whole, so concurrent readers always see a consistent table set.
type Dataset struct {
	Events   []ReconciledRecord `json:"events"`
	Coverage []CoverageRecord   `json:"coverage"`
	Roster   []RosterMember     `json:"roster"`

	FetchedAt    time.Time         `json:"fetched_at"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Degraded reports whether any source failed during the run.
func (d *Dataset) Degraded() bool {
	return len(d.SourceErrors) > 0
}
