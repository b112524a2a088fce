package ports

import "context"

// Blocker makes a list of domains unreachable and restores access again.
// This is a driven port (implemented by adapters).
type Blocker interface {
	// Backup copies the pristine host file so Revert can restore it.
	Backup(ctx context.Context) error

	// Engage blocks every domain, in order.
	Engage(ctx context.Context, domains []string) error

	// Revert restores the host file from the backup, byte for byte.
	Revert(ctx context.Context) error
}
