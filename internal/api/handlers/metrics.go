package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kognisi/insight/internal/metrics"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/redis"
)

// MetricsHandler serves the adoption, hour-achievement, and content
// leaderboard views
type MetricsHandler struct {
	store       *snapshot.Store
	cache       *redis.Cache
	multipliers metrics.UnitMultipliers
	logger      *logger.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(store *snapshot.Store, cache *redis.Cache, multipliers metrics.UnitMultipliers, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		store:       store,
		cache:       cache,
		multipliers: multipliers,
		logger:      log,
	}
}

// AdoptionResponse wraps the adoption report with snapshot metadata.
type AdoptionResponse struct {
	SnapshotAt time.Time              `json:"snapshot_at"`
	Degraded   bool                   `json:"degraded"`
	Report     metrics.AdoptionReport `json:"report"`
}

// GetAdoption returns the active/passive adoption breakdown
// GET /api/adoption?breakdown=unit
func (h *MetricsHandler) GetAdoption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dim, err := parseBreakdown(r)
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

	var resp AdoptionResponse
	key := redis.ViewKey("adoption", ds.FetchedAt, r.URL.RawQuery)
	err = h.cache.GetOrSet(ctx, key, &resp, redis.TTLView, func() (interface{}, error) {
		return AdoptionResponse{
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
			Report:     metrics.Adoption(filter.Records(ds.Events), filter.Coverage(ds.Coverage), window, dim),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build adoption report")
		respondError(w, http.StatusInternalServerError, "Failed to build adoption report")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// HoursResponse wraps the hour-achievement report with snapshot metadata.
type HoursResponse struct {
	SnapshotAt time.Time                 `json:"snapshot_at"`
	Degraded   bool                      `json:"degraded"`
	Report     metrics.AchievementReport `json:"report"`
}

// GetHours returns the learning-hour achievement breakdown. The hour
// target scales with the window length, so both bounds are required.
// GET /api/hours?from=2026-01-01&to=2026-03-31&breakdown=unit
func (h *MetricsHandler) GetHours(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if window.From.IsZero() || window.To.IsZero() {
		respondError(w, http.StatusBadRequest, "hour achievement requires both 'from' and 'to' dates")
		return
	}
	dim, err := parseBreakdown(r)
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

	var resp HoursResponse
	key := redis.ViewKey("hours", ds.FetchedAt, r.URL.RawQuery)
	err = h.cache.GetOrSet(ctx, key, &resp, redis.TTLView, func() (interface{}, error) {
		return HoursResponse{
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
			Report:     metrics.HourAchievement(filter.Records(ds.Events), filter.Coverage(ds.Coverage), window, dim, h.multipliers),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build hour achievement report")
		respondError(w, http.StatusInternalServerError, "Failed to build hour achievement report")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ContentResponse is the top-content leaderboard view.
type ContentResponse struct {
	SnapshotAt time.Time                  `json:"snapshot_at"`
	Degraded   bool                       `json:"degraded"`
	Entries    []metrics.LeaderboardEntry `json:"entries"`
}

// GetTopContent returns the most-consumed content leaderboard
// GET /api/content/top?limit=10
func (h *MetricsHandler) GetTopContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := parseFilter(r)

	limit := metrics.DefaultLeaderboardSize
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "invalid 'limit' (expected positive integer)")
			return
		}
	}

	ds, err := h.store.Get(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshot")
		respondError(w, http.StatusServiceUnavailable, "Snapshot unavailable")
		return
	}

	var resp ContentResponse
	key := redis.ViewKey("content:top", ds.FetchedAt, r.URL.RawQuery)
	err = h.cache.GetOrSet(ctx, key, &resp, redis.TTLView, func() (interface{}, error) {
		return ContentResponse{
			SnapshotAt: ds.FetchedAt,
			Degraded:   ds.Degraded(),
			Entries:    metrics.TopContent(filter.Records(ds.Events), window, limit),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build content leaderboard")
		respondError(w, http.StatusInternalServerError, "Failed to build content leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
