package domain

import (
	"slices"
	"time"
)

// SameDay reports whether a and b fall on the same calendar date in loc.
// Date equality, not a 24h window: 23:59 and 00:01 are different days.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend reports whether t falls on one of days. A nil slice means the
// default Saturday/Sunday weekend; an empty one means no weekend at all.
func IsWeekend(t time.Time, days []time.Weekday) bool {
	if days == nil {
		days = DefaultWeekendDays()
	}
	return slices.Contains(days, t.Weekday())
}

// Elapsed returns the worked time of the current session at now. A paused
// session is measured up to the pause, and finished pauses are excluded.
func Elapsed(state *PersistedState, now time.Time) time.Duration {
	if state == nil || state.SessionStart == nil {
		return 0
	}
	end := now
	if state.PausedAt != nil {
		end = *state.PausedAt
	}
	elapsed := end.Sub(*state.SessionStart) - state.PausedFor
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Remaining returns how much of quota is left at now, never negative.
func Remaining(state *PersistedState, quota time.Duration, now time.Time) time.Duration {
	remaining := quota - Elapsed(state, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress returns the completed fraction of quota (0.0 to 1.0).
func Progress(state *PersistedState, quota time.Duration, now time.Time) float64 {
	if quota <= 0 {
		return 0
	}
	p := float64(Elapsed(state, now)) / float64(quota)
	if p > 1 {
		return 1
	}
	return p
}

// QuotaReached reports whether a running session has consumed the quota.
// Reaching the quota exactly counts.
func QuotaReached(state *PersistedState, quota time.Duration, now time.Time) bool {
	if state == nil || state.SessionStart == nil {
		return false
	}
	return Elapsed(state, now) >= quota
}

// Lateness returns the signed delay between start and the expected start
// of that same day. Negative means early. Nil when expected is nil.
func Lateness(start time.Time, expected *time.Duration) *time.Duration {
	if expected == nil {
		return nil
	}
	h := int(*expected / time.Hour)
	m := int((*expected % time.Hour) / time.Minute)
	y, mo, d := start.Date()
	target := time.Date(y, mo, d, h, m, 0, 0, start.Location())
	late := start.Sub(target)
	return &late
}
