// Package discovery reads learning activity from the Discovery platform
// database.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/pkg/database"
	"github.com/kognisi/insight/pkg/logger"
)

// PlatformName labels Discovery rows in the unified event table.
const PlatformName = "Discovery"

// Discovery has no employee identifier column; events match on email
// only. Watch time is tracked in minutes and converted here.
const eventQuery = `
SELECT
	m.email,
	v.title,
	v.category,
	w.watch_minutes,
	w.watched_on
FROM watch_sessions w
JOIN members m ON m.id = w.member_id
JOIN videos v  ON v.id = w.video_id
`

// Reader fetches all Discovery learning events.
type Reader struct {
	db     *database.DB
	logger *logger.Logger
}

// NewReader creates a Discovery reader. A nil db marks the source as
// unconfigured.
func NewReader(db *database.DB, log *logger.Logger) *Reader {
	return &Reader{
		db:     db,
		logger: log.WithField("source", PlatformName),
	}
}

// Name identifies this source
func (r *Reader) Name() string {
	return PlatformName
}

// Fetch returns all Discovery learning events mapped to the unified
// shape.
func (r *Reader) Fetch(ctx context.Context) ([]contracts.LearningEvent, error) {
	if r.db == nil {
		return nil, fmt.Errorf("discovery database not configured")
	}

	rows, err := r.db.Pool.Query(ctx, eventQuery)
	if err != nil {
		return nil, fmt.Errorf("discovery query failed: %w", err)
	}
	defer rows.Close()

	var events []contracts.LearningEvent
	for rows.Next() {
		var (
			email, title, category string
			watchMinutes           *float64
			watchedOn              *time.Time
		)
		if err := rows.Scan(&email, &title, &category, &watchMinutes, &watchedOn); err != nil {
			return nil, fmt.Errorf("discovery scan failed: %w", err)
		}

		ev := contracts.LearningEvent{
			Email:       email,
			Title:       title,
			ContentType: category,
			Platform:    PlatformName,
		}
		if watchMinutes != nil {
			ev.DurationSeconds = *watchMinutes * 60
		}
		if watchedOn != nil {
			day := time.Date(watchedOn.Year(), watchedOn.Month(), watchedOn.Day(), 0, 0, 0, 0, time.UTC)
			ev.EventDate = &day
		}

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("discovery row iteration failed: %w", err)
	}

	r.logger.WithField("rows", len(events)).Debug("Fetched Discovery events")
	return events, nil
}
