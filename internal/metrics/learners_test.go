package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/internal/contracts"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func member(id, unit string) *contracts.RosterMember {
	return &contracts.RosterMember{EmployeeID: id, Unit: unit}
}

func internalEvent(key, platform, title string, day *time.Time, m *contracts.RosterMember) contracts.ReconciledRecord {
	return contracts.ReconciledRecord{
		Event:    contracts.LearningEvent{Platform: platform, Title: title, EventDate: day},
		Identity: contracts.ResolvedIdentity{Key: key, Basis: contracts.MatchByID},
		Member:   m,
		Status:   contracts.StatusInternal,
	}
}

func externalEvent(key, platform, title string, day *time.Time) contracts.ReconciledRecord {
	return contracts.ReconciledRecord{
		Event:    contracts.LearningEvent{Platform: platform, Title: title, EventDate: day},
		Identity: contracts.ResolvedIdentity{Key: key, Basis: contracts.MatchNone},
		Status:   contracts.StatusExternal,
	}
}

func TestActiveLearners(t *testing.T) {
	andi := member("000123", "Corporate")
	budi := member("000456", "Media")

	records := []contracts.ReconciledRecord{
		internalEvent("000123", "MyKG", "A", datePtr(2026, 1, 10), andi),
		internalEvent("000123", "Discovery", "B", datePtr(2026, 1, 20), andi), // same person twice
		internalEvent("000456", "MyKG", "A", datePtr(2026, 2, 5), budi),
		externalEvent("guest@outside.com", "MyKG", "A", datePtr(2026, 2, 6)),
		internalEvent("000456", "MyKG", "C", datePtr(2025, 11, 1), budi), // out of window
		externalEvent("nodate@outside.com", "MyKG", "A", nil),            // unparseable date dropped
	}

	w := Window{From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)}
	got := ActiveLearners(records, w)

	assert.Equal(t, 3, got.Overall)
	assert.Equal(t, 2, got.Internal)
	assert.Equal(t, 1, got.External)
}

func TestActiveLearners_EmptyWindow(t *testing.T) {
	records := []contracts.ReconciledRecord{
		internalEvent("000123", "MyKG", "A", datePtr(2026, 1, 10), member("000123", "Corporate")),
	}

	w := Window{From: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)}
	got := ActiveLearners(records, w)

	assert.Equal(t, LearnerSummary{}, got)
}

func TestPlatformDistribution(t *testing.T) {
	andi := member("000123", "Corporate")
	budi := member("000456", "Media")

	records := []contracts.ReconciledRecord{
		internalEvent("000123", "MyKG", "A", datePtr(2026, 1, 10), andi),
		internalEvent("000456", "MyKG", "A", datePtr(2026, 1, 11), budi),
		internalEvent("000123", "Discovery", "B", datePtr(2026, 1, 12), andi),
		internalEvent("000123", "MyKG", "C", datePtr(2026, 1, 13), andi), // same learner, same platform
	}

	got := PlatformDistribution(records, Lifetime)

	require.Len(t, got, 2)
	assert.Equal(t, PlatformCount{Platform: "MyKG", Learners: 2}, got[0])
	assert.Equal(t, PlatformCount{Platform: "Discovery", Learners: 1}, got[1])
}

// Identical input yields identical output, including ordering.
func TestPlatformDistribution_Deterministic(t *testing.T) {
	records := []contracts.ReconciledRecord{
		internalEvent("1", "Alpha", "A", datePtr(2026, 1, 1), member("1", "U")),
		internalEvent("2", "Beta", "A", datePtr(2026, 1, 1), member("2", "U")),
		internalEvent("3", "Alpha", "A", datePtr(2026, 1, 1), member("3", "U")),
		internalEvent("4", "Gamma", "A", datePtr(2026, 1, 1), member("4", "U")),
		internalEvent("5", "Beta", "A", datePtr(2026, 1, 1), member("5", "U")),
	}

	first := PlatformDistribution(records, Lifetime)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PlatformDistribution(records, Lifetime))
	}

	// Alpha and Beta tie on 2 learners each: name breaks the tie
	require.Len(t, first, 3)
	assert.Equal(t, "Alpha", first[0].Platform)
	assert.Equal(t, "Beta", first[1].Platform)
	assert.Equal(t, "Gamma", first[2].Platform)
}
