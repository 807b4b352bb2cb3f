package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/internal/contracts"
)

func coverageRow(id, unit string, events int) contracts.CoverageRecord {
	status := contracts.CoveragePassive
	if events > 0 {
		status = contracts.CoverageActive
	}
	return contracts.CoverageRecord{
		Member:     contracts.RosterMember{EmployeeID: id, Unit: unit},
		EventCount: events,
		Status:     status,
	}
}

func TestAdoption(t *testing.T) {
	andi := member("000123", "Corporate")
	budi := member("000456", "Media")

	records := []contracts.ReconciledRecord{
		internalEvent("000123", "MyKG", "A", datePtr(2026, 1, 10), andi),
		internalEvent("000123", "MyKG", "B", datePtr(2026, 1, 11), andi), // same person
		internalEvent("000456", "MyKG", "A", datePtr(2026, 1, 12), budi),
		externalEvent("guest@outside.com", "MyKG", "A", datePtr(2026, 1, 13)), // externals never count
	}

	coverage := []contracts.CoverageRecord{
		coverageRow("000123", "Corporate", 2),
		coverageRow("000456", "Media", 1),
		coverageRow("000789", "Media", 0),
		coverageRow("000999", "Media", 0),
	}

	report := Adoption(records, coverage, Lifetime, contracts.DimUnit)

	require.Len(t, report.Rows, 2)

	corporate := report.Rows[0]
	assert.Equal(t, "Corporate", corporate.Group)
	assert.Equal(t, 1, corporate.Active)
	assert.Equal(t, 0, corporate.Passive)
	assert.InDelta(t, 100.0, corporate.ActivePct, 0.001)

	media := report.Rows[1]
	assert.Equal(t, "Media", media.Group)
	assert.Equal(t, 1, media.Active)
	assert.Equal(t, 2, media.Passive)
	assert.InDelta(t, 33.333, media.ActivePct, 0.001)
	assert.InDelta(t, 66.667, media.PassivePct, 0.001)

	// Active + Passive partitions the roster per group
	for _, row := range report.Rows {
		assert.False(t, row.Flagged)
		assert.InDelta(t, 100.0, row.ActivePct+row.PassivePct, 0.001)
	}

	assert.Equal(t, 2, report.ActiveTotal)
	assert.Equal(t, 4, report.MemberTotal)
	assert.InDelta(t, 50.0, report.OverallPct, 0.001)
}

// An empty group yields 0% flagged, never a division fault.
func TestAdoption_EmptyGroupFlagged(t *testing.T) {
	// Event for a member outside the coverage slice (narrower roster filter)
	ghost := member("000777", "Ghost Unit")
	records := []contracts.ReconciledRecord{
		internalEvent("000777", "MyKG", "A", datePtr(2026, 1, 10), ghost),
	}

	report := Adoption(records, nil, Lifetime, contracts.DimUnit)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "Ghost Unit", row.Group)
	assert.True(t, row.Flagged)
	assert.Equal(t, 0.0, row.ActivePct)
}

func TestAdoption_NoData(t *testing.T) {
	report := Adoption(nil, nil, Lifetime, contracts.DimUnit)
	assert.Empty(t, report.Rows)
	assert.Equal(t, 0.0, report.OverallPct)
}

func TestAdoption_WindowExcludesEvents(t *testing.T) {
	andi := member("000123", "Corporate")
	records := []contracts.ReconciledRecord{
		internalEvent("000123", "MyKG", "A", datePtr(2025, 6, 1), andi),
	}
	coverage := []contracts.CoverageRecord{coverageRow("000123", "Corporate", 1)}

	w := Window{From: date(2026, 1, 1), To: date(2026, 12, 31)}
	report := Adoption(records, coverage, w, contracts.DimUnit)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 0, report.Rows[0].Active)
	assert.Equal(t, 1, report.Rows[0].Passive)
}
