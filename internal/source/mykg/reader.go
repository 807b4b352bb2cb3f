// Package mykg reads learning activity from the MyKG platform database.
package mykg

import (
	"context"
	"fmt"
	"time"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/pkg/database"
	"github.com/kognisi/insight/pkg/logger"
)

// PlatformName labels MyKG rows in the unified event table. MyKG hosts
// several content verticals and reports its own platform column; rows
// without one fall back to this label.
const PlatformName = "MyKG"

// eventQuery maps the MyKG activity schema to the unified event shape.
const eventQuery = `
SELECT
	u.email,
	COALESCE(u.employee_id, '')      AS employee_id,
	c.title,
	c.content_type,
	COALESCE(a.platform, '')         AS platform,
	a.duration_seconds,
	a.accessed_at
FROM learning_activities a
JOIN users u    ON u.id = a.user_id
JOIN contents c ON c.id = a.content_id
`

// Reader fetches all MyKG learning events.
type Reader struct {
	db     *database.DB
	logger *logger.Logger
}

// NewReader creates a MyKG reader. A nil db marks the source as
// unconfigured; Fetch then reports unavailability and the pipeline
// proceeds with degraded coverage.
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

// Fetch returns all MyKG learning events mapped to the unified shape.
func (r *Reader) Fetch(ctx context.Context) ([]contracts.LearningEvent, error) {
	if r.db == nil {
		return nil, fmt.Errorf("mykg database not configured")
	}

	rows, err := r.db.Pool.Query(ctx, eventQuery)
	if err != nil {
		return nil, fmt.Errorf("mykg query failed: %w", err)
	}
	defer rows.Close()

	var events []contracts.LearningEvent
	for rows.Next() {
		var (
			email, employeeID, title, contentType, platform string
			duration                                        *float64
			accessedAt                                      *time.Time
		)
		if err := rows.Scan(&email, &employeeID, &title, &contentType, &platform, &duration, &accessedAt); err != nil {
			return nil, fmt.Errorf("mykg scan failed: %w", err)
		}

		ev := contracts.LearningEvent{
			Email:         email,
			RawEmployeeID: employeeID,
			Title:         title,
			ContentType:   contentType,
			Platform:      platform,
		}
		if ev.Platform == "" {
			ev.Platform = PlatformName
		}
		if duration != nil {
			ev.DurationSeconds = *duration
		}
		if accessedAt != nil {
			day := time.Date(accessedAt.Year(), accessedAt.Month(), accessedAt.Day(), 0, 0, 0, 0, time.UTC)
			ev.EventDate = &day
		}

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mykg row iteration failed: %w", err)
	}

	r.logger.WithField("rows", len(events)).Debug("Fetched MyKG events")
	return events, nil
}
