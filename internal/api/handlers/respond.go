// Package handlers implements the dashboard-facing HTTP endpoints.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/metrics"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// parseWindow reads the optional from/to query parameters. A missing
// bound leaves that side of the window open.
func parseWindow(r *http.Request) (metrics.Window, error) {
	var w metrics.Window

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return w, fmt.Errorf("invalid 'from' date %q (expected YYYY-MM-DD)", s)
		}
		w.From = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return w, fmt.Errorf("invalid 'to' date %q (expected YYYY-MM-DD)", s)
		}
		w.To = t
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return w, fmt.Errorf("'to' date precedes 'from' date")
	}

	return w, nil
}

// parseFilter reads the sidebar filter parameters. Multi-value
// parameters repeat: ?division=Editorial&division=Digital.
func parseFilter(r *http.Request) metrics.Filter {
	q := r.URL.Query()
	return metrics.Filter{
		Unit:        q.Get("unit"),
		Subunits:    q["subunit"],
		AdminHR:     q["admin_hr"],
		Divisions:   q["division"],
		Platform:    q.Get("platform"),
		ContentType: q.Get("type"),
		Titles:      q["title"],
	}
}

// parseBreakdown reads the breakdown dimension, defaulting to unit.
func parseBreakdown(r *http.Request) (contracts.Dimension, error) {
	s := r.URL.Query().Get("breakdown")
	if s == "" {
		return contracts.DimUnit, nil
	}
	return contracts.ParseDimension(s)
}
