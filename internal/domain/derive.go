package domain

import "time"

// DeriveStatus computes the status the machine starts in. It is a pure
// function of the durable record, the settings and the current instant:
//
//  1. an engaged detox resumes (Working, OnBreak, or ReadyToStart when no
//     start was recorded); otherwise the block is still needed.
//  2. a completion dated today overrides step 1.
//  3. a weekend day overrides everything.
func DeriveStatus(state *PersistedState, settings Settings, now time.Time) SessionStatus {
	status := StatusNeedsBlock
	if state.DetoxActive {
		switch {
		case state.SessionStart == nil:
			status = StatusReadyToStart
		case state.PausedAt != nil:
			status = StatusOnBreak
		default:
			status = StatusWorking
		}
	}

	if CompletedOn(state, now) {
		status = StatusCompletedToday
	}

	if IsWeekend(now, settings.WeekendDays) {
		status = StatusWeekend
	}

	return status
}

// CompletedOn reports whether the quota was last satisfied on now's date.
func CompletedOn(state *PersistedState, now time.Time) bool {
	return state.LastCompletion != nil && SameDay(*state.LastCompletion, now, now.Location())
}
