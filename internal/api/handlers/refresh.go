package handlers

import (
	"net/http"
	"time"

	"github.com/kognisi/insight/internal/api/ws"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/redis"
)

// refreshLimit caps forced refreshes: a full rebuild hits every
// upstream platform, so a misbehaving dashboard tab must not be able
// to hammer them.
var refreshLimit = redis.RateLimitConfig{
	Key:    "refresh",
	Limit:  6,
	Window: time.Minute,
}

// RefreshHandler triggers a forced snapshot rebuild
type RefreshHandler struct {
	store   *snapshot.Store
	limiter *redis.RateLimiter
	hub     *ws.Hub
	logger  *logger.Logger
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(store *snapshot.Store, limiter *redis.RateLimiter, hub *ws.Hub, log *logger.Logger) *RefreshHandler {
	return &RefreshHandler{
		store:   store,
		limiter: limiter,
		hub:     hub,
		logger:  log,
	}
}

// RefreshResponse reports the outcome of a forced rebuild.
type RefreshResponse struct {
	Status       string            `json:"status"`
	SnapshotAt   time.Time         `json:"snapshot_at"`
	Events       int               `json:"events"`
	Roster       int               `json:"roster"`
	Degraded     bool              `json:"degraded"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// Refresh rebuilds the snapshot immediately and notifies websocket
// clients
// POST /api/refresh
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	allowed, remaining, err := h.limiter.Allow(ctx, refreshLimit)
	if err != nil {
		h.logger.WithError(err).Warn("Rate limit check failed, allowing request")
	} else if !allowed {
		respondError(w, http.StatusTooManyRequests, "Refresh rate limit exceeded, try again shortly")
		return
	}

	h.logger.WithField("remaining", remaining).Info("Forced snapshot refresh requested")

	ds, err := h.store.Refresh(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Forced snapshot refresh failed")
		respondError(w, http.StatusInternalServerError, "Snapshot refresh failed")
		return
	}

	h.hub.Broadcast(ws.Event{
		Type:       "snapshot_refreshed",
		SnapshotAt: ds.FetchedAt,
		Degraded:   ds.Degraded(),
	})

	respondJSON(w, http.StatusOK, RefreshResponse{
		Status:       "success",
		SnapshotAt:   ds.FetchedAt,
		Events:       len(ds.Events),
		Roster:       len(ds.Roster),
		Degraded:     ds.Degraded(),
		SourceErrors: ds.SourceErrors,
	})
}
