package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/internal/source"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
)

type fakeSource struct {
	name   string
	events []contracts.LearningEvent
	err    error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) ([]contracts.LearningEvent, error) {
	return s.events, s.err
}

type fakeRoster struct {
	members []contracts.RosterMember
	err     error
}

func (r *fakeRoster) Load(ctx context.Context) ([]contracts.RosterMember, error) {
	return r.members, r.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRunJoinsSourcesAgainstRoster(t *testing.T) {
	members := []contracts.RosterMember{
		{EmployeeID: "000123", Email: "ana@kg.id", Unit: "Kompas"},
		{EmployeeID: "000456", Email: "budi@kg.id", Unit: "Gramedia"},
	}
	src := &fakeSource{name: "MyKG", events: []contracts.LearningEvent{
		{Email: "ana@kg.id", RawEmployeeID: "123.0", Title: "Go Basics", Platform: "MyKG", EventDate: datePtr(2026, 3, 1)},
		{Email: "guest@gmail.com", Title: "Open Course", Platform: "MyKG", EventDate: datePtr(2026, 3, 2)},
	}}

	p := New([]source.EventSource{src}, &fakeRoster{members: members}, testLogger())
	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Events, 2)
	assert.Equal(t, contracts.StatusInternal, ds.Events[0].Status)
	assert.Equal(t, "000123", ds.Events[0].Identity.Key)
	assert.Equal(t, contracts.StatusExternal, ds.Events[1].Status)

	require.Len(t, ds.Coverage, 2)
	byID := map[string]contracts.CoverageRecord{}
	for _, c := range ds.Coverage {
		byID[c.Member.EmployeeID] = c
	}
	assert.Equal(t, contracts.CoverageActive, byID["000123"].Status)
	assert.Equal(t, contracts.CoveragePassive, byID["000456"].Status)

	assert.Empty(t, ds.SourceErrors)
	assert.False(t, ds.Degraded())
	assert.False(t, ds.FetchedAt.IsZero())
}

func TestRunIsolatesSourceFailure(t *testing.T) {
	good := &fakeSource{name: "Discovery", events: []contracts.LearningEvent{
		{Email: "ana@kg.id", Platform: "Discovery", EventDate: datePtr(2026, 3, 1)},
	}}
	bad := &fakeSource{name: "MyKG", err: errors.New("connection refused")}

	members := []contracts.RosterMember{{EmployeeID: "000123", Email: "ana@kg.id"}}

	p := New([]source.EventSource{good, bad}, &fakeRoster{members: members}, testLogger())
	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Events, 1)
	assert.True(t, ds.Degraded())
	assert.Equal(t, "connection refused", ds.SourceErrors["MyKG"])
	require.Len(t, ds.Coverage, 1)
	assert.Equal(t, contracts.CoverageActive, ds.Coverage[0].Status)
}

func TestRunRosterFailureDegradesToExternal(t *testing.T) {
	src := &fakeSource{name: "MyKG", events: []contracts.LearningEvent{
		{Email: "ana@kg.id", EventDate: datePtr(2026, 3, 1)},
	}}

	p := New([]source.EventSource{src}, &fakeRoster{err: errors.New("sheet unavailable")}, testLogger())
	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sheet unavailable", ds.SourceErrors["roster"])
	require.Len(t, ds.Events, 1)
	assert.Equal(t, contracts.StatusExternal, ds.Events[0].Status)
	assert.Empty(t, ds.Coverage)
}

func TestRunDeterministicAcrossSchedules(t *testing.T) {
	a := &fakeSource{name: "A", events: []contracts.LearningEvent{{Email: "x@kg.id", Title: "t1"}}}
	b := &fakeSource{name: "B", events: []contracts.LearningEvent{{Email: "y@kg.id", Title: "t2"}}}

	p := New([]source.EventSource{b, a}, &fakeRoster{}, testLogger())

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ds, err := p.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, ds.Events, 2)
		for j := range ds.Events {
			assert.Equal(t, first.Events[j].Event.Title, ds.Events[j].Event.Title)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{name: "MyKG"}
	p := New([]source.EventSource{src}, &fakeRoster{}, testLogger())

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
