// Package roster loads the authoritative HR roster from the monthly
// SAP active-employee spreadsheet. The roster is read-only ground truth
// for one pipeline run.
package roster

import (
	"context"
	"fmt"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/identity"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
	"github.com/kognisi/insight/pkg/sheets"
)

// Columns is the roster column set requested from the sheet. Extra
// columns in the source are ignored; a missing identity column is a
// schema contract violation.
var Columns = []string{
	"email", "nik", "name",
	"unit", "subunit", "admin_hr", "layer", "generation",
	"gender", "division", "department", "position", "region",
}

// Loader is the roster-side contract the pipeline consumes.
type Loader interface {
	Load(ctx context.Context) ([]contracts.RosterMember, error)
}

// Reader loads roster members from Google Sheets, either through the
// Sheets API or from a published-CSV URL.
type Reader struct {
	client *sheets.Client
	cfg    config.SheetsConfig
	logger *logger.Logger
}

// NewReader creates a roster reader.
func NewReader(client *sheets.Client, cfg config.SheetsConfig, log *logger.Logger) *Reader {
	return &Reader{
		client: client,
		cfg:    cfg,
		logger: log.WithField("module", "roster"),
	}
}

// Load fetches the roster and maps it to canonical members. Emails and
// employee IDs are normalized here, at the boundary, so everything
// downstream compares canonical forms only.
func (r *Reader) Load(ctx context.Context) ([]contracts.RosterMember, error) {
	var (
		rows []map[string]string
		err  error
	)

	if r.cfg.RosterSpreadsheet != "" {
		rows, err = r.client.ReadTable(ctx, r.cfg.RosterSpreadsheet, r.cfg.RosterRange)
	} else {
		rows, err = r.client.ReadCSVURL(ctx, r.cfg.RosterCSVURL)
	}
	if err != nil {
		return nil, fmt.Errorf("roster fetch failed: %w", err)
	}

	if len(rows) > 0 {
		// The identity columns are load-bearing; their absence means the
		// sheet layout changed underneath us and must not be masked.
		if _, ok := rows[0]["nik"]; !ok {
			return nil, fmt.Errorf("roster schema violation: missing 'nik' column")
		}
		if _, ok := rows[0]["email"]; !ok {
			return nil, fmt.Errorf("roster schema violation: missing 'email' column")
		}
	}

	members := make([]contracts.RosterMember, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		m, ok := fromRow(row)
		if !ok {
			skipped++
			continue
		}
		members = append(members, m)
	}

	if skipped > 0 {
		r.logger.WithField("rows", skipped).Warn("Skipped roster rows without a usable NIK")
	}
	r.logger.WithField("members", len(members)).Info("Roster loaded")

	return members, nil
}

// fromRow maps one sheet row to a canonical roster member. Rows whose
// NIK does not normalize to a numeric ID are rejected: a roster entry
// without its primary key cannot anchor any join.
func fromRow(row map[string]string) (contracts.RosterMember, bool) {
	id := identity.NormalizeEmployeeID(row["nik"])
	if id == "" {
		return contracts.RosterMember{}, false
	}

	return contracts.RosterMember{
		EmployeeID: id,
		Email:      identity.NormalizeEmail(row["email"]),
		Name:       row["name"],
		Unit:       row["unit"],
		Subunit:    row["subunit"],
		AdminHR:    row["admin_hr"],
		Layer:      row["layer"],
		Generation: row["generation"],
		Gender:     row["gender"],
		Division:   row["division"],
		Department: row["department"],
		Position:   row["position"],
		Region:     row["region"],
	}, true
}
