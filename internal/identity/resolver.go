package identity

import (
	"fmt"

	"github.com/kognisi/insight/internal/contracts"
)

// Resolver maps learning events to canonical person-level keys against
// the HR roster. It is built once per pipeline run and is purely
// functional afterwards: Resolve never mutates the indexes.
type Resolver struct {
	byID     map[string]*contracts.RosterMember
	byEmail  map[string]*contracts.RosterMember
	warnings []string
}

// NewResolver indexes the roster by canonical employee ID and by
// normalized email. Roster employee IDs are expected to be unique; a
// duplicate keeps the first occurrence and is surfaced as a
// data-quality warning rather than silently fanning out joins.
func NewResolver(roster []contracts.RosterMember) *Resolver {
	r := &Resolver{
		byID:    make(map[string]*contracts.RosterMember, len(roster)),
		byEmail: make(map[string]*contracts.RosterMember, len(roster)),
	}

	for i := range roster {
		m := &roster[i]

		id := NormalizeEmployeeID(m.EmployeeID)
		if id != "" {
			if _, exists := r.byID[id]; exists {
				r.warnings = append(r.warnings,
					fmt.Sprintf("duplicate roster employee_id %s: kept first occurrence", id))
			} else {
				r.byID[id] = m
			}
		}

		email := NormalizeEmail(m.Email)
		if email != "" {
			// Emails can be shared or reassigned; first occurrence wins.
			if _, exists := r.byEmail[email]; !exists {
				r.byEmail[email] = m
			}
		}
	}

	return r
}

// Warnings returns data-quality warnings collected while indexing.
func (r *Resolver) Warnings() []string {
	return r.warnings
}

// RosterSize returns the number of distinct employee IDs indexed.
func (r *Resolver) RosterSize() int {
	return len(r.byID)
}

// Resolve computes the canonical identity for one event. Match priority
// is strict: identifier first (the organization's primary key), then
// email, then the normalized email as an unmatched fallback key. Every
// event gets exactly one identity; an empty roster simply sends all
// events down the fallback path.
func (r *Resolver) Resolve(ev contracts.LearningEvent) (contracts.ResolvedIdentity, *contracts.RosterMember) {
	if id := NormalizeEmployeeID(ev.RawEmployeeID); id != "" {
		if m, ok := r.byID[id]; ok {
			return contracts.ResolvedIdentity{Key: id, Basis: contracts.MatchByID}, m
		}
	}

	email := NormalizeEmail(ev.Email)
	if email != "" {
		if m, ok := r.byEmail[email]; ok {
			return contracts.ResolvedIdentity{
				Key:   NormalizeEmployeeID(m.EmployeeID),
				Basis: contracts.MatchByEmail,
			}, m
		}
	}

	return contracts.ResolvedIdentity{Key: email, Basis: contracts.MatchNone}, nil
}
