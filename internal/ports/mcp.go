package ports

import (
	"context"

	"github.com/xvierd/detox-cli/internal/domain"
)

// MCPStateProvider provides read-only state to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// Snapshot derives the current status without changing anything.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	// RecentCompletions returns completions of the last days days, newest first.
	RecentCompletions(ctx context.Context, days int) ([]*domain.Completion, error)

	// Streak returns the number of consecutive completed work days.
	Streak(ctx context.Context) (int, error)
}
