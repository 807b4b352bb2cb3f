package metrics

import "github.com/kognisi/insight/internal/contracts"

// Filter narrows the reconciled slices before aggregation. Filters
// mirror the dashboard sidebar: organizational attributes come from the
// matched roster member, content attributes from the event itself.
// Aggregations accept a pre-filtered slice and compute correctly on it.
type Filter struct {
	Unit        string
	Subunits    []string
	AdminHR     []string
	Divisions   []string
	Platform    string
	ContentType string
	Titles      []string
}

// Empty reports whether the filter narrows anything.
func (f Filter) Empty() bool {
	return f.Unit == "" && len(f.Subunits) == 0 && len(f.AdminHR) == 0 &&
		len(f.Divisions) == 0 && f.Platform == "" && f.ContentType == "" &&
		len(f.Titles) == 0
}

// MatchMember applies the organizational filters to a roster member.
func (f Filter) MatchMember(m *contracts.RosterMember) bool {
	if f.Unit != "" && m.Unit != f.Unit {
		return false
	}
	if len(f.Subunits) > 0 && !contains(f.Subunits, m.Subunit) {
		return false
	}
	if len(f.AdminHR) > 0 && !contains(f.AdminHR, m.AdminHR) {
		return false
	}
	if len(f.Divisions) > 0 && !contains(f.Divisions, m.Division) {
		return false
	}
	return true
}

// MatchRecord applies all filters to a reconciled event. When an
// organizational filter is set, external events (no member) are
// excluded: they carry no organizational attributes to match on.
func (f Filter) MatchRecord(rec contracts.ReconciledRecord) bool {
	if f.Platform != "" && rec.Event.Platform != f.Platform {
		return false
	}
	if f.ContentType != "" && rec.Event.ContentType != f.ContentType {
		return false
	}
	if len(f.Titles) > 0 && !contains(f.Titles, rec.Event.Title) {
		return false
	}

	orgFiltered := f.Unit != "" || len(f.Subunits) > 0 || len(f.AdminHR) > 0 || len(f.Divisions) > 0
	if orgFiltered {
		if rec.Member == nil {
			return false
		}
		if !f.MatchMember(rec.Member) {
			return false
		}
	}

	return true
}

// Records returns the reconciled events passing the filter.
func (f Filter) Records(records []contracts.ReconciledRecord) []contracts.ReconciledRecord {
	if f.Empty() {
		return records
	}
	out := make([]contracts.ReconciledRecord, 0, len(records))
	for _, rec := range records {
		if f.MatchRecord(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Coverage returns the coverage rows whose member passes the
// organizational filters. Content filters do not apply to members.
func (f Filter) Coverage(coverage []contracts.CoverageRecord) []contracts.CoverageRecord {
	if f.Unit == "" && len(f.Subunits) == 0 && len(f.AdminHR) == 0 && len(f.Divisions) == 0 {
		return coverage
	}
	out := make([]contracts.CoverageRecord, 0, len(coverage))
	for _, c := range coverage {
		m := c.Member
		if f.MatchMember(&m) {
			out = append(out, c)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
