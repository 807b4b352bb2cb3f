package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/internal/contracts"
)

func TestWriteCSV(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []contracts.ReconciledRecord{
		{
			Event: contracts.LearningEvent{
				Email: "ana@kg.id", RawEmployeeID: "123.0",
				Title: "Go Basics", ContentType: "video", Platform: "MyKG",
				DurationSeconds: 900.5, EventDate: &date,
			},
			Identity: contracts.ResolvedIdentity{Key: "000123", Basis: contracts.MatchByID},
			Member:   &contracts.RosterMember{Name: "Ana", Unit: "Kompas", Division: "Editorial"},
			Status:   contracts.StatusInternal,
		},
		{
			Event: contracts.LearningEvent{
				Email: "guest@gmail.com", Title: "Open Course", Platform: "Discovery",
			},
			Identity: contracts.ResolvedIdentity{Key: "guest@gmail.com", Basis: contracts.MatchNone},
			Status:   contracts.StatusExternal,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportColumns, rows[0])

	assert.Equal(t, "ana@kg.id", rows[1][0])
	assert.Equal(t, "123.0", rows[1][1])
	assert.Equal(t, "000123", rows[1][2])
	assert.Equal(t, "id", rows[1][3])
	assert.Equal(t, "Internal", rows[1][4])
	assert.Equal(t, "Ana", rows[1][5])
	assert.Equal(t, "900.5", rows[1][15])
	assert.Equal(t, "2026-03-15", rows[1][16])

	// External rows have empty roster columns
	assert.Equal(t, "guest@gmail.com", rows[2][0])
	assert.Equal(t, "External", rows[2][4])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "", rows[2][16])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportColumns, rows[0])
}
