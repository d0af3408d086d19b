package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int
	runs     int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	if j.runs <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	job := &fakeJob{name: "refresh", schedule: "0 0 * * * *"}
	require.NoError(t, s.AddJob(job))
	assert.Equal(t, []string{"refresh"}, s.Jobs())

	err := s.AddJob(&fakeJob{name: "refresh", schedule: "0 0 * * * *"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(logger.Nop())

	err := s.AddJob(&fakeJob{name: "bad", schedule: "not a cron spec"})
	require.Error(t, err)
}

func TestRunJob_UnknownJob(t *testing.T) {
	s := New(logger.Nop())

	err := s.RunJob("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunJob_RecordsHistory(t *testing.T) {
	s := New(logger.Nop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "refresh", schedule: "0 0 * * * *"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.History("refresh")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, "refresh", history.Results[0].JobName)
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := New(logger.Nop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "flaky", schedule: "0 0 * * * *", failures: 2}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, 3, job.runs)

	history, err := s.History("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
}

func TestRunJob_FailureAfterAllRetries(t *testing.T) {
	s := New(logger.Nop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "broken", schedule: "0 0 * * * *", failures: 100}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, 4, job.runs, "initial attempt plus three retries")

	history, err := s.History("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.NotEmpty(t, history.Results[0].Error)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.SuccessRate())

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})
	h.AddResult(JobResult{Success: true})

	assert.InDelta(t, 2.0/3.0, h.SuccessRate(), 1e-9)
	assert.Len(t, h.LatestResults(2), 2)
	assert.Len(t, h.LatestResults(10), 3)
	assert.Empty(t, h.LatestResults(0))
}

func TestJobHistory_Capped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{Success: true})
	}
	assert.Len(t, h.Results, 100)
}
