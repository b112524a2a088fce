package domain

import "fmt"

// SessionStatus is the position of the day's work session in the detox
// state machine. It is derived at every launch and never persisted.
type SessionStatus int

const (
	// StatusNeedsBlock waits for confirmation before the block is engaged.
	StatusNeedsBlock SessionStatus = iota
	// StatusReadyToStart has the block engaged but the timer not started.
	StatusReadyToStart
	// StatusWorking is counting down the quota.
	StatusWorking
	// StatusOnBreak has the countdown frozen.
	StatusOnBreak
	// StatusCompletedToday means the quota was satisfied today.
	StatusCompletedToday
	// StatusWeekend means today is a configured non-work day.
	StatusWeekend
)

// String returns the machine name used in JSON output.
func (s SessionStatus) String() string {
	switch s {
	case StatusNeedsBlock:
		return "needs_block"
	case StatusReadyToStart:
		return "ready_to_start"
	case StatusWorking:
		return "working"
	case StatusOnBreak:
		return "on_break"
	case StatusCompletedToday:
		return "completed_today"
	case StatusWeekend:
		return "weekend"
	default:
		panic(fmt.Sprintf("domain: unknown session status %d", int(s)))
	}
}

// Label returns the headline shown to the user for the status.
func (s SessionStatus) Label() string {
	switch s {
	case StatusNeedsBlock:
		return "Press Space to Begin System Detox"
	case StatusReadyToStart:
		return "Press Space to Begin Working!"
	case StatusWorking:
		return "Currently Working..."
	case StatusOnBreak:
		return "On break....."
	case StatusCompletedToday:
		return "YOUR WORK IS COMPLETED FOR TODAY CONGRATS!"
	case StatusWeekend:
		return "It's the weekend. Go outside!"
	default:
		panic(fmt.Sprintf("domain: unknown session status %d", int(s)))
	}
}

// IsTerminal reports whether no trigger can leave the status during a run.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompletedToday || s == StatusWeekend
}

// HasTimer reports whether a session start exists in the status.
func (s SessionStatus) HasTimer() bool {
	return s == StatusWorking || s == StatusOnBreak
}
