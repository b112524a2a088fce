package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/detox-cli/internal/domain"
)

func TestNewStatusReport(t *testing.T) {
	start := time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)
	late := 15 * time.Minute
	snap := domain.Snapshot{
		Status:       domain.StatusWorking,
		Now:          start.Add(time.Hour),
		WorkDuration: 4 * time.Hour,
		DetoxActive:  true,
		SessionStart: &start,
		Elapsed:      time.Hour,
		Remaining:    3 * time.Hour,
		Progress:     0.25,
		Lateness:     &late,
	}

	r := NewStatusReport(snap)

	assert.Equal(t, "working", r.Status)
	assert.Equal(t, "Currently Working...", r.Label)
	assert.Equal(t, int64(3600), r.ElapsedSeconds)
	assert.Equal(t, int64(10800), r.RemainingSeconds)
	assert.Equal(t, "2024-03-05T09:15:00Z", *r.SessionStart)
	assert.Nil(t, r.LastCompletion)
	assert.Equal(t, int64(900), *r.LatenessSeconds)
	assert.NotNil(t, r.BlockedSites)
}

func TestNewCompletionReports(t *testing.T) {
	at := time.Date(2024, 3, 5, 17, 0, 0, 0, time.UTC)
	reports := NewCompletionReports([]*domain.Completion{
		{ID: "a", StartedAt: at.Add(-4 * time.Hour), CompletedAt: at, WorkDuration: 4 * time.Hour, GitBranch: "main", GitCommit: "0123456789abcdef"},
	})

	if assert.Len(t, reports, 1) {
		assert.Equal(t, "2024-03-05", reports[0].Date)
		assert.Equal(t, int64(14400), reports[0].WorkSeconds)
		assert.Nil(t, reports[0].LatenessSeconds)
		assert.Equal(t, "main", reports[0].GitBranch)
		assert.Equal(t, "0123456789abcdef", reports[0].GitCommit)
	}
	assert.NotNil(t, NewCompletionReports(nil))
}
