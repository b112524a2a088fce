package ports

import (
	"context"

	"github.com/xvierd/detox-cli/internal/domain"
)

// TimerCommand represents a user action during the run.
type TimerCommand string

const (
	// CmdConfirm engages the block or starts working, depending on status.
	CmdConfirm TimerCommand = "confirm"

	// CmdPause freezes the countdown.
	CmdPause TimerCommand = "pause"

	// CmdResume continues a frozen countdown.
	CmdResume TimerCommand = "resume"
)

// Controller is what the interactive view drives. Every method runs on the
// single control loop.
type Controller interface {
	// Handle applies a user command.
	Handle(ctx context.Context, cmd TimerCommand) error

	// Tick advances time-based transitions.
	Tick(ctx context.Context) error

	// Snapshot returns the state to render.
	Snapshot() domain.Snapshot

	// LastError returns the most recent failure that has not been cleared
	// by a successful transition.
	LastError() error
}

// Timer is the interactive view.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run takes over the terminal and blocks until the user quits or ctx
	// is cancelled. The terminal is restored on every return path.
	Run(ctx context.Context, controller Controller) error
}
