package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/internal/contracts"
)

func hourEvent(key string, m *contracts.RosterMember, seconds float64, day *time.Time) contracts.ReconciledRecord {
	return contracts.ReconciledRecord{
		Event:    contracts.LearningEvent{DurationSeconds: seconds, EventDate: day, Platform: "MyKG"},
		Identity: contracts.ResolvedIdentity{Key: key, Basis: contracts.MatchByID},
		Member:   m,
		Status:   contracts.StatusInternal,
	}
}

func TestHourAchievement(t *testing.T) {
	andi := member("000123", "Corporate")
	budi := member("000456", "Media")

	// Window: Jan-Mar = 3 months = target 3 hours
	w := Window{From: date(2026, 1, 1), To: date(2026, 3, 31)}

	records := []contracts.ReconciledRecord{
		hourEvent("000123", andi, 2*3600, datePtr(2026, 1, 10)),
		hourEvent("000123", andi, 1.5*3600, datePtr(2026, 2, 10)), // total 3.5h -> achieved
		hourEvent("000456", budi, 3600, datePtr(2026, 1, 15)),     // 1h -> not achieved
		hourEvent("000456", budi, 10*3600, datePtr(2025, 12, 1)),  // outside window, ignored
	}

	coverage := []contracts.CoverageRecord{
		coverageRow("000123", "Corporate", 2),
		coverageRow("000456", "Media", 1),
		coverageRow("000789", "Media", 0), // inactive
	}

	report := HourAchievement(records, coverage, w, contracts.DimUnit, nil)

	assert.Equal(t, 3.0, report.TargetHours)
	assert.Equal(t, 3, report.TotalEmployees)
	assert.Equal(t, 1, report.AchievedEmployees)
	assert.InDelta(t, 33.333, report.AchievedPct, 0.001)
	assert.InDelta(t, (3.5+1.0)/2, report.AvgHours, 0.001)

	require.Len(t, report.Rows, 2)

	corporate := report.Rows[0]
	assert.Equal(t, "Corporate", corporate.Group)
	assert.Equal(t, 1, corporate.Achieved)
	assert.Equal(t, 0, corporate.NotAchieved)
	assert.Equal(t, 0, corporate.Inactive)

	media := report.Rows[1]
	assert.Equal(t, "Media", media.Group)
	assert.Equal(t, 0, media.Achieved)
	assert.Equal(t, 1, media.NotAchieved)
	assert.Equal(t, 1, media.Inactive)
	assert.InDelta(t, 50.0, media.NotAchievedPct, 0.001)
	assert.InDelta(t, 50.0, media.InactivePct, 0.001)
}

// The roster's full population partitions into the three classes.
func TestHourAchievement_Partition(t *testing.T) {
	w := Window{From: date(2026, 1, 1), To: date(2026, 1, 31)}

	andi := member("000123", "Corporate")
	records := []contracts.ReconciledRecord{
		hourEvent("000123", andi, 7200, datePtr(2026, 1, 5)),
	}
	coverage := []contracts.CoverageRecord{
		coverageRow("000123", "Corporate", 1),
		coverageRow("000456", "Corporate", 0),
		coverageRow("000789", "Corporate", 0),
	}

	report := HourAchievement(records, coverage, w, contracts.DimUnit, nil)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, report.TotalEmployees, row.Achieved+row.NotAchieved+row.Inactive)
	assert.InDelta(t, 100.0, row.AchievedPct+row.NotAchievedPct+row.InactivePct, 0.001)
}

func TestHourAchievement_UnitMultiplier(t *testing.T) {
	// One month window, target 1h; Corporate scaled to 2h
	w := Window{From: date(2026, 1, 1), To: date(2026, 1, 31)}

	andi := member("000123", "Corporate")
	budi := member("000456", "Media")

	records := []contracts.ReconciledRecord{
		hourEvent("000123", andi, 1.5*3600, datePtr(2026, 1, 10)), // 1.5h < 2h target
		hourEvent("000456", budi, 1.5*3600, datePtr(2026, 1, 10)), // 1.5h >= 1h target
	}
	coverage := []contracts.CoverageRecord{
		coverageRow("000123", "Corporate", 1),
		coverageRow("000456", "Media", 1),
	}

	report := HourAchievement(records, coverage, w, contracts.DimUnit, UnitMultipliers{"Corporate": 2})

	require.Len(t, report.Rows, 2)
	assert.Equal(t, 0, report.Rows[0].Achieved) // Corporate
	assert.Equal(t, 1, report.Rows[0].NotAchieved)
	assert.Equal(t, 1, report.Rows[1].Achieved) // Media
}

// An event with a null duration still marks the member active: they are
// Not Achieved, never Inactive.
func TestHourAchievement_ZeroDurationStillActive(t *testing.T) {
	w := Window{From: date(2026, 1, 1), To: date(2026, 1, 31)}

	andi := member("000123", "Corporate")
	records := []contracts.ReconciledRecord{
		hourEvent("000123", andi, 0, datePtr(2026, 1, 10)),
	}
	coverage := []contracts.CoverageRecord{coverageRow("000123", "Corporate", 1)}

	report := HourAchievement(records, coverage, w, contracts.DimUnit, nil)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Rows[0].NotAchieved)
	assert.Equal(t, 0, report.Rows[0].Inactive)
}
