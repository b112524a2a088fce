package domain

import "time"

// Snapshot is a read-only view of the machine at one instant. The view,
// the status command and the MCP server all render from it.
type Snapshot struct {
	Status         SessionStatus
	Now            time.Time
	WorkDuration   time.Duration
	DetoxActive    bool
	SessionStart   *time.Time
	LastCompletion *time.Time
	Elapsed        time.Duration
	Remaining      time.Duration
	Progress       float64
	Lateness       *time.Duration
	BlockedDomains []string
}

// NewSnapshot computes the time accounting for status at now.
func NewSnapshot(status SessionStatus, state *PersistedState, settings Settings, now time.Time) Snapshot {
	snap := Snapshot{
		Status:         status,
		Now:            now,
		WorkDuration:   settings.WorkDuration,
		DetoxActive:    state.DetoxActive,
		SessionStart:   cloneTime(state.SessionStart),
		LastCompletion: cloneTime(state.LastCompletion),
		Remaining:      settings.WorkDuration,
		BlockedDomains: append([]string(nil), settings.BlockedDomains...),
	}
	if state.SessionStart != nil {
		snap.Elapsed = Elapsed(state, now)
		snap.Remaining = Remaining(state, settings.WorkDuration, now)
		snap.Progress = Progress(state, settings.WorkDuration, now)
		snap.Lateness = Lateness(*state.SessionStart, settings.ExpectedStart)
	}
	if status == StatusCompletedToday {
		snap.Remaining = 0
		snap.Progress = 1
	}
	return snap
}
