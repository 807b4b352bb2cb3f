package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	for _, d := range Dimensions {
		parsed, err := ParseDimension(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	_, err := ParseDimension("salary")
	assert.Error(t, err)

	_, err = ParseDimension("")
	assert.Error(t, err)
}

func TestMemberAttrCoversEveryDimension(t *testing.T) {
	m := &RosterMember{
		Unit:       "u",
		Subunit:    "s",
		AdminHR:    "a",
		Layer:      "l",
		Generation: "g",
		Gender:     "f",
		Division:   "d",
		Department: "dep",
		Position:   "p",
		Region:     "r",
	}

	for _, d := range Dimensions {
		assert.NotEmpty(t, m.Attr(d), "dimension %s", d)
	}
}

func TestResolvedIdentityInternal(t *testing.T) {
	assert.True(t, ResolvedIdentity{Key: "000123", Basis: MatchByID}.Internal())
	assert.True(t, ResolvedIdentity{Key: "000123", Basis: MatchByEmail}.Internal())
	assert.False(t, ResolvedIdentity{Key: "x@y.com", Basis: MatchNone}.Internal())
}

func TestDatasetDegraded(t *testing.T) {
	ds := &Dataset{}
	assert.False(t, ds.Degraded())

	ds.SourceErrors = map[string]string{"MyKG": "timeout"}
	assert.True(t, ds.Degraded())
}
