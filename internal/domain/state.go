package domain

import (
	"fmt"
	"time"
)

// PersistedState is the durable record that survives restarts. It is the
// source of truth; SessionStatus is re-derived from it at every launch.
type PersistedState struct {
	// DetoxActive is true while the block is engaged.
	DetoxActive bool
	// SessionStart is set once the user starts working and cleared when
	// the quota completes.
	SessionStart *time.Time
	// LastCompletion is only ever overwritten, never cleared.
	LastCompletion *time.Time
	// PausedAt is set while the countdown is frozen.
	PausedAt *time.Time
	// PausedFor accumulates finished pauses of the current session.
	PausedFor time.Duration
}

// Validate checks that session fields only exist inside an engaged detox.
func (s *PersistedState) Validate() error {
	if s.SessionStart != nil && !s.DetoxActive {
		return fmt.Errorf("%w: session start recorded while detox is inactive", ErrInconsistentState)
	}
	if s.PausedAt != nil && s.SessionStart == nil {
		return fmt.Errorf("%w: pause recorded without a session start", ErrInconsistentState)
	}
	if s.PausedFor < 0 {
		return fmt.Errorf("%w: negative paused duration", ErrInconsistentState)
	}
	return nil
}

// Clone returns a deep copy so a failed save can be rolled back.
func (s *PersistedState) Clone() *PersistedState {
	c := *s
	c.SessionStart = cloneTime(s.SessionStart)
	c.LastCompletion = cloneTime(s.LastCompletion)
	c.PausedAt = cloneTime(s.PausedAt)
	return &c
}

// IsPaused reports whether the countdown is frozen.
func (s *PersistedState) IsPaused() bool {
	return s.PausedAt != nil
}

// ClearSession drops every per-session field.
func (s *PersistedState) ClearSession() {
	s.SessionStart = nil
	s.PausedAt = nil
	s.PausedFor = 0
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
