package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-03-15 13:45:00", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/03/15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15/03/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{" 2026-03-15 ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got := ParseDate(tc.in)
		require.NotNil(t, got, "input %q", tc.in)
		assert.Equal(t, tc.want, *got, "input %q", tc.in)
	}
}

func TestParseDateUnparseable(t *testing.T) {
	for _, in := range []string{"", "n/a", "March fifteenth", "2026-13-45"} {
		assert.Nil(t, ParseDate(in), "input %q", in)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 900.5, ParseDuration("900.5"))
	assert.Equal(t, float64(0), ParseDuration(""))
	assert.Equal(t, float64(0), ParseDuration("ninety"))
	assert.Equal(t, float64(0), ParseDuration("-10"))
}
