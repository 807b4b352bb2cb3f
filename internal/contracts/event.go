package contracts

import "time"

// LearningEvent is one record of an employee consuming (or authoring)
// one piece of learning content on one platform. All sources are
// adapted into this shape before reconciliation.
type LearningEvent struct {
	Email           string     `json:"email"`
	RawEmployeeID   string     `json:"raw_employee_id"`
	Title           string     `json:"title"`
	ContentType     string     `json:"content_type"`
	Platform        string     `json:"platform"`
	DurationSeconds float64    `json:"duration_seconds"`
	EventDate       *time.Time `json:"event_date"` // nil when the source date was unparseable
}

// MatchBasis records how an event was resolved to an identity.
type MatchBasis string

const (
	MatchByID    MatchBasis = "id"
	MatchByEmail MatchBasis = "email"
	MatchNone    MatchBasis = "unmatched"
)

// ResolvedIdentity is the canonical person-level key for one event.
// Key is the roster employee ID when matched, otherwise the normalized
// email as a fallback pseudo-identity. Key is never empty for an event
// that carries either field; it is the grouping key for every
// distinct-learner count downstream.
type ResolvedIdentity struct {
	Key   string     `json:"resolved_key"`
	Basis MatchBasis `json:"match_basis"`
}

// Internal reports whether the identity resolved to a roster member.
func (r ResolvedIdentity) Internal() bool {
	return r.Basis == MatchByID || r.Basis == MatchByEmail
}
