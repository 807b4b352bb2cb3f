package metrics

import (
	"sort"

	"github.com/kognisi/insight/internal/contracts"
)

// AchievementStatus is the three-way learning-hour classification for
// one roster member over a window.
type AchievementStatus string

const (
	Achieved    AchievementStatus = "Achieved"
	NotAchieved AchievementStatus = "Not Achieved"
	Inactive    AchievementStatus = "Inactive"
)

// AchievementRow is one breakdown group's hour-achievement numbers.
// Percentages are over the group's full roster population, so inactive
// (zero-event) members weigh the denominator down by design of the
// metric, not by accident.
type AchievementRow struct {
	Group          string  `json:"group"`
	Achieved       int     `json:"achieved"`
	NotAchieved    int     `json:"not_achieved"`
	Inactive       int     `json:"inactive"`
	AchievedPct    float64 `json:"achieved_pct"`
	NotAchievedPct float64 `json:"not_achieved_pct"`
	InactivePct    float64 `json:"inactive_pct"`
}

// AchievementReport is the learning-hour view for one breakdown
// dimension and window.
type AchievementReport struct {
	Dimension         contracts.Dimension `json:"dimension"`
	TargetHours       float64             `json:"target_hours"`
	Rows              []AchievementRow    `json:"rows"`
	TotalEmployees    int                 `json:"total_employees"`
	AchievedEmployees int                 `json:"achieved_employees"`
	AchievedPct       float64             `json:"achieved_pct"`
	AvgHours          float64             `json:"avg_hours"`
}

// UnitMultipliers scales the hour target per organizational unit. A
// unit absent from the map uses the default multiplier of 1.
type UnitMultipliers map[string]float64

func (u UnitMultipliers) apply(unit string) float64 {
	if u == nil {
		return 1
	}
	if m, ok := u[unit]; ok && m > 0 {
		return m
	}
	return 1
}

// HourAchievement sums each roster member's in-window learning hours
// and classifies them against the dynamic target: the number of whole
// months in the window times the member's unit multiplier (policy: one
// hour per month by default). Members with no in-window events are
// Inactive; members with events but below target are Not Achieved.
func HourAchievement(records []contracts.ReconciledRecord, coverage []contracts.CoverageRecord, w Window, dim contracts.Dimension, multipliers UnitMultipliers) AchievementReport {
	baseTarget := float64(MonthsInWindow(w.From, w.To))

	// Per-member hours and event presence, from internal events only:
	// external learners have no roster row to classify.
	hours := make(map[string]float64)
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Status != contracts.StatusInternal {
			continue
		}
		if !w.Contains(rec.Event.EventDate) {
			continue
		}
		key := rec.Identity.Key
		seen[key] = true
		hours[key] += rec.Event.DurationSeconds / 3600
	}

	report := AchievementReport{Dimension: dim, TargetHours: baseTarget}

	perGroup := make(map[string]*AchievementRow)
	activeMembers := 0
	var activeHours float64

	for _, c := range coverage {
		group := c.Member.Attr(dim)
		row := perGroup[group]
		if row == nil {
			row = &AchievementRow{Group: group}
			perGroup[group] = row
		}

		key := c.Member.EmployeeID
		target := baseTarget * multipliers.apply(c.Member.Unit)

		switch {
		case !seen[key]:
			row.Inactive++
		case hours[key] >= target:
			row.Achieved++
			report.AchievedEmployees++
		default:
			row.NotAchieved++
		}

		if seen[key] {
			activeMembers++
			activeHours += hours[key]
		}
		report.TotalEmployees++
	}

	for _, row := range perGroup {
		total := row.Achieved + row.NotAchieved + row.Inactive
		if total > 0 {
			row.AchievedPct = float64(row.Achieved) / float64(total) * 100
			row.NotAchievedPct = float64(row.NotAchieved) / float64(total) * 100
			row.InactivePct = float64(row.Inactive) / float64(total) * 100
		}
		report.Rows = append(report.Rows, *row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Group < report.Rows[j].Group
	})

	if report.TotalEmployees > 0 {
		report.AchievedPct = float64(report.AchievedEmployees) / float64(report.TotalEmployees) * 100
	}
	if activeMembers > 0 {
		report.AvgHours = activeHours / float64(activeMembers)
	}

	return report
}
