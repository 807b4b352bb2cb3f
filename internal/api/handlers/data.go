package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/export"
	"github.com/kognisi/insight/internal/metrics"
	"github.com/kognisi/insight/internal/snapshot"
	"github.com/kognisi/insight/pkg/logger"
)

const (
	defaultRawLimit = 1000
	maxRawLimit     = 10000
)

// DataHandler serves the raw reconciled table and its CSV export
type DataHandler struct {
	store  *snapshot.Store
	logger *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(store *snapshot.Store, log *logger.Logger) *DataHandler {
	return &DataHandler{
		store:  store,
		logger: log,
	}
}

// RawResponse is a page of the reconciled event table.
type RawResponse struct {
	SnapshotAt   time.Time                    `json:"snapshot_at"`
	Degraded     bool                         `json:"degraded"`
	SourceErrors map[string]string            `json:"source_errors,omitempty"`
	Warnings     []string                     `json:"warnings,omitempty"`
	Total        int                          `json:"total"`
	Offset       int                          `json:"offset"`
	Records      []contracts.ReconciledRecord `json:"records"`
}

// GetRaw returns a page of the reconciled event table
// GET /api/data/raw?limit=1000&offset=0
func (h *DataHandler) GetRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := parseFilter(r)

	limit := defaultRawLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxRawLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid 'limit' (expected 1..%d)", maxRawLimit))
			return
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "invalid 'offset'")
			return
		}
	}

	ds, err := h.store.Get(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshot")
		respondError(w, http.StatusServiceUnavailable, "Snapshot unavailable")
		return
	}

	records := filterWindow(filter.Records(ds.Events), window)

	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, RawResponse{
		SnapshotAt:   ds.FetchedAt,
		Degraded:     ds.Degraded(),
		SourceErrors: ds.SourceErrors,
		Warnings:     ds.Warnings,
		Total:        total,
		Offset:       offset,
		Records:      records[offset:end],
	})
}

// Export streams the full reconciled table as a CSV attachment
// GET /api/data/export
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
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

	records := filterWindow(filter.Records(ds.Events), window)

	filename := fmt.Sprintf("learning-events-%s.csv", ds.FetchedAt.Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCSV(w, records); err != nil {
		// Headers are already gone; log and give up on this response.
		h.logger.WithError(err).Error("CSV export failed mid-stream")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"records":  len(records),
		"filename": filename,
	}).Info("CSV export served")
}

// filterWindow keeps records whose event date falls inside the window.
// An unbounded window passes everything through, undated events
// included, so the raw table always shows the complete join result.
func filterWindow(records []contracts.ReconciledRecord, w metrics.Window) []contracts.ReconciledRecord {
	if w.From.IsZero() && w.To.IsZero() {
		return records
	}
	out := make([]contracts.ReconciledRecord, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.Event.EventDate) {
			out = append(out, rec)
		}
	}
	return out
}
