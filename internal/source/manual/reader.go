// Package manual reads learning activity from the monthly-upload
// spreadsheet that covers platforms without a queryable database
// (offline classes, webinars, external course completions).
package manual

import (
	"context"
	"fmt"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/source"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/sheets"
)

// SourceName labels manual-upload rows in the unified event table when
// the sheet row does not name its own platform.
const SourceName = "Manual"

// Reader fetches learning events from the manual-entry sheet.
type Reader struct {
	client *sheets.Client
	cfg    config.SheetsConfig
	logger *logger.Logger
}

// NewReader creates a manual-upload reader.
func NewReader(client *sheets.Client, cfg config.SheetsConfig, log *logger.Logger) *Reader {
	return &Reader{
		client: client,
		cfg:    cfg,
		logger: log.WithField("source", SourceName),
	}
}

// Name identifies this source
func (r *Reader) Name() string {
	return SourceName
}

// Fetch reads the manual sheet and adapts each row to the unified event
// shape. Hand-entered dates and durations are parsed tolerantly: an
// unparseable duration becomes 0, an unparseable date stays nil.
func (r *Reader) Fetch(ctx context.Context) ([]contracts.LearningEvent, error) {
	if r.cfg.ManualSpreadsheet == "" {
		return nil, fmt.Errorf("manual spreadsheet not configured")
	}

	rows, err := r.client.ReadTable(ctx, r.cfg.ManualSpreadsheet, r.cfg.ManualRange)
	if err != nil {
		return nil, fmt.Errorf("manual sheet read failed: %w", err)
	}

	events := make([]contracts.LearningEvent, 0, len(rows))
	for _, row := range rows {
		ev := contracts.LearningEvent{
			Email:           row["email"],
			RawEmployeeID:   row["nik"],
			Title:           row["title"],
			ContentType:     row["type"],
			Platform:        row["platform"],
			DurationSeconds: source.ParseDuration(row["duration"]),
			EventDate:       source.ParseDate(row["date"]),
		}
		if ev.Platform == "" {
			ev.Platform = SourceName
		}

		// Rows with no identity at all are upload noise, not events
		if ev.Email == "" && ev.RawEmployeeID == "" {
			continue
		}

		events = append(events, ev)
	}

	r.logger.WithField("rows", len(events)).Debug("Fetched manual-upload events")
	return events, nil
}
