package metrics

import (
	"sort"

	"github.com/kognisi/insight/internal/contracts"
)

// DefaultLeaderboardSize is how many titles the top-content view shows.
const DefaultLeaderboardSize = 10

// LeaderboardEntry is one ranked content title.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Title    string `json:"title"`
	Learners int    `json:"learners"`
}

// TopContent ranks content titles by distinct learners inside the
// window, descending, and keeps the top limit entries. Ties are broken
// by title ascending so repeated runs on identical input produce an
// identical leaderboard.
func TopContent(records []contracts.ReconciledRecord, w Window, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	perTitle := make(map[string]map[string]bool)
	for _, rec := range records {
		if !w.Contains(rec.Event.EventDate) {
			continue
		}
		if rec.Event.Title == "" {
			continue
		}
		keys := perTitle[rec.Event.Title]
		if keys == nil {
			keys = make(map[string]bool)
			perTitle[rec.Event.Title] = keys
		}
		keys[rec.Identity.Key] = true
	}

	entries := make([]LeaderboardEntry, 0, len(perTitle))
	for title, keys := range perTitle {
		entries = append(entries, LeaderboardEntry{Title: title, Learners: len(keys)})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Learners != entries[j].Learners {
			return entries[i].Learners > entries[j].Learners
		}
		return entries[i].Title < entries[j].Title
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
