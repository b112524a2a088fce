package domain

import (
	"sort"
	"time"
)

// Completion records one satisfied daily quota.
type Completion struct {
	ID           string
	StartedAt    time.Time
	CompletedAt  time.Time
	WorkDuration time.Duration
	PausedFor    time.Duration
	Lateness     *time.Duration
	GitBranch    string
	GitCommit    string
}

// ShortCommit returns the abbreviated commit hash, or "" when none was
// recorded.
func (c *Completion) ShortCommit() string {
	if len(c.GitCommit) > 7 {
		return c.GitCommit[:7]
	}
	return c.GitCommit
}

// NewCompletion builds the history entry for a session that ended at now.
func NewCompletion(state *PersistedState, settings Settings, now time.Time) *Completion {
	c := &Completion{
		ID:           generateID(),
		CompletedAt:  now,
		WorkDuration: settings.WorkDuration,
		PausedFor:    state.PausedFor,
	}
	if state.SessionStart != nil {
		c.StartedAt = *state.SessionStart
		c.Lateness = Lateness(*state.SessionStart, settings.ExpectedStart)
	}
	return c
}

// Streak counts consecutive work days with a completion, ending today. If
// today has no completion yet the streak is counted from the previous work
// day so an unfinished morning does not reset it. Weekend days are skipped.
func Streak(completions []*Completion, now time.Time, weekend []time.Weekday) int {
	if len(completions) == 0 {
		return 0
	}
	loc := now.Location()
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.CompletedAt.In(loc).Format(time.DateOnly)] = true
	}

	day := now.In(loc)
	if !done[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}

	oldest := completions[0].CompletedAt
	for _, c := range completions {
		if c.CompletedAt.Before(oldest) {
			oldest = c.CompletedAt
		}
	}

	streak := 0
	for !day.Before(startOfDay(oldest.In(loc))) {
		if IsWeekend(day, weekend) {
			day = day.AddDate(0, 0, -1)
			continue
		}
		if !done[day.Format(time.DateOnly)] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// SortNewestFirst orders completions by completion time, newest first.
func SortNewestFirst(completions []*Completion) {
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].CompletedAt.After(completions[j].CompletedAt)
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
