// Package source defines the event-source contract and the per-source
// adapters that normalize heterogeneous platform schemas into the
// unified LearningEvent shape before reconciliation.
package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kognisi/insight/internal/contracts"
)

// EventSource is one learning platform's "fetch all records" operation.
// Implementations own their schema mapping; every source yields the
// same LearningEvent shape. A fetch error is contained by the pipeline
// (empty table, degraded coverage), never a pipeline abort.
type EventSource interface {
	// Name identifies the source in logs and degraded-mode reports
	Name() string

	// Fetch returns all learning events from this source
	Fetch(ctx context.Context) ([]contracts.LearningEvent, error)
}

// dateLayouts are the formats hand-edited sources show up with.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"1/2/2006",
}

// ParseDate parses a free-text date cell. Unparseable values yield nil:
// the row is kept but excluded from date-windowed computations, which
// beats defaulting it into the wrong period.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}

// ParseDuration parses a free-text duration-seconds cell. Null or
// unparseable values yield 0.
func ParseDuration(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
