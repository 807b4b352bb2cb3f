package handlers

import (
	"net/http"
	"time"

	"github.com/kognisi/insight/internal/metrics"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/redis"
)

// LearnerHandler serves the active-learner views
type LearnerHandler struct {
	store  *snapshot.Store
	cache  *redis.Cache
	logger *logger.Logger
}

// NewLearnerHandler creates a new learner handler
func NewLearnerHandler(store *snapshot.Store, cache *redis.Cache, log *logger.Logger) *LearnerHandler {
	return &LearnerHandler{
		store:  store,
		cache:  cache,
		logger: log,
	}
}

// SummaryResponse is the active-learner headcount view.
type SummaryResponse struct {
	SnapshotAt time.Time              `json:"snapshot_at"`
	Degraded   bool                   `json:"degraded"`
	Learners   metrics.LearnerSummary `json:"learners"`
}

// GetSummary returns distinct active-learner counts
// GET /api/learners/summary
func (h *LearnerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := parseFilter(r)

	ds, err := h.store.Get(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshot")
		respondError(w, http.StatusServiceUnavailable, "Snapshot unavailable")
		return
	}

	var resp SummaryResponse
	key := redis.ViewKey("learners:summary", ds.FetchedAt, r.URL.RawQuery)
	err = h.cache.GetOrSet(ctx, key, &resp, redis.TTLView, func() (interface{}, error) {
		return SummaryResponse{
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
			Learners:   metrics.ActiveLearners(filter.Records(ds.Events), window),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build learner summary")
		respondError(w, http.StatusInternalServerError, "Failed to build learner summary")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// PlatformsResponse is the per-platform active-learner view.
type PlatformsResponse struct {
	SnapshotAt time.Time               `json:"snapshot_at"`
	Degraded   bool                    `json:"degraded"`
	Platforms  []metrics.PlatformCount `json:"platforms"`
}

// GetPlatforms returns the per-platform distinct learner distribution
// GET /api/learners/platforms
func (h *LearnerHandler) GetPlatforms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := parseFilter(r)

	ds, err := h.store.Get(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshot")
		respondError(w, http.StatusServiceUnavailable, "Snapshot unavailable")
		return
	}

	var resp PlatformsResponse
	key := redis.ViewKey("learners:platforms", ds.FetchedAt, r.URL.RawQuery)
	err = h.cache.GetOrSet(ctx, key, &resp, redis.TTLView, func() (interface{}, error) {
		return PlatformsResponse{
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
			Platforms:  metrics.PlatformDistribution(filter.Records(ds.Events), window),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build platform distribution")
		respondError(w, http.StatusInternalServerError, "Failed to build platform distribution")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
