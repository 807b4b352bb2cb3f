package metrics

import (
	"sort"

	"github.com/kognisi/insight/internal/contracts"
)

// LearnerSummary holds the distinct active-learner counts for one
// window: overall and split by Internal/External status.
type LearnerSummary struct {
	Overall  int `json:"overall"`
	Internal int `json:"internal"`
	External int `json:"external"`
}

// ActiveLearners counts distinct resolved keys among events inside the
// window. A key seen as both Internal and External (which cannot happen
// for a single person, but can for a shared fallback key) is counted in
// each split by the status of its events; Overall stays distinct.
func ActiveLearners(records []contracts.ReconciledRecord, w Window) LearnerSummary {
	overall := make(map[string]bool)
	internal := make(map[string]bool)
	external := make(map[string]bool)

	for _, rec := range records {
		if !w.Contains(rec.Event.EventDate) {
			continue
		}
		key := rec.Identity.Key
		overall[key] = true
		if rec.Status == contracts.StatusInternal {
			internal[key] = true
		} else {
			external[key] = true
		}
	}

	return LearnerSummary{
		Overall:  len(overall),
		Internal: len(internal),
		External: len(external),
	}
}

// PlatformCount is one platform's distinct-learner count.
type PlatformCount struct {
	Platform string `json:"platform"`
	Learners int    `json:"learners"`
}

// PlatformDistribution counts distinct learners per platform inside the
// window, sorted by count descending then platform name for a
// deterministic order.
func PlatformDistribution(records []contracts.ReconciledRecord, w Window) []PlatformCount {
	perPlatform := make(map[string]map[string]bool)

	for _, rec := range records {
		if !w.Contains(rec.Event.EventDate) {
			continue
		}
		keys := perPlatform[rec.Event.Platform]
		if keys == nil {
			keys = make(map[string]bool)
			perPlatform[rec.Event.Platform] = keys
		}
		keys[rec.Identity.Key] = true
	}

	out := make([]PlatformCount, 0, len(perPlatform))
	for platform, keys := range perPlatform {
		out = append(out, PlatformCount{Platform: platform, Learners: len(keys)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Learners != out[j].Learners {
			return out[i].Learners > out[j].Learners
		}
		return out[i].Platform < out[j].Platform
	})

	return out
}
