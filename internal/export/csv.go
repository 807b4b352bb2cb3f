// Package export renders reconciled datasets as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kognisi/insight/internal/contracts"
)

// exportColumns fixes the CSV column order. New columns go at the end
// so existing downstream spreadsheets keep working.
var exportColumns = []string{
	"email", "employee_id", "resolved_key", "match_basis", "status",
	"name", "unit", "subunit", "admin_hr", "division", "department", "position",
	"platform", "title", "content_type", "duration_seconds", "event_date",
}

// WriteCSV writes the reconciled event table to w, one row per event.
func WriteCSV(w io.Writer, records []contracts.ReconciledRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("csv header write failed: %w", err)
	}

	row := make([]string, len(exportColumns))
	for _, r := range records {
		row[0] = r.Event.Email
		row[1] = r.Event.RawEmployeeID
		row[2] = r.Identity.Key
		row[3] = string(r.Identity.Basis)
		row[4] = string(r.Status)

		if m := r.Member; m != nil {
			row[5] = m.Name
			row[6] = m.Unit
			row[7] = m.Subunit
			row[8] = m.AdminHR
			row[9] = m.Division
			row[10] = m.Department
			row[11] = m.Position
		} else {
			for i := 5; i <= 11; i++ {
				row[i] = ""
			}
		}

		row[12] = r.Event.Platform
		row[13] = r.Event.Title
		row[14] = r.Event.ContentType
		row[15] = strconv.FormatFloat(r.Event.DurationSeconds, 'f', -1, 64)
		if r.Event.EventDate != nil {
			row[16] = r.Event.EventDate.Format("2006-01-02")
		} else {
			row[16] = ""
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv row write failed: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
