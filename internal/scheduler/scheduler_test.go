package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	ran      chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	j.ran <- struct{}{}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func TestAddJobRejectsDuplicate(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "audit", schedule: "@daily", ran: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "audit", schedule: "not-a-schedule", ran: make(chan struct{}, 1)}
	assert.Error(t, s.AddJob(job))
}

func TestRunJobImmediate(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "refresh", schedule: "@hourly", ran: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("refresh"))

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// History records the run asynchronously after Run returns
	assert.Eventually(t, func() bool {
		history, err := s.History("refresh")
		require.NoError(t, err)
		last := history.LastResult()
		return last != nil && last.Success
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunJobUnknown(t *testing.T) {
	s := New(testLogger())
	assert.Error(t, s.RunJob("missing"))
}
