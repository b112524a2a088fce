// Package ports defines the interfaces (driven and driving ports) between
// the detox domain and the infrastructure around it.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/detox-cli/internal/domain"
)

// StateStore persists the durable save record.
// This is a driven port (implemented by adapters).
type StateStore interface {
	// Load reads the save record. A missing or malformed record is a
	// domain.ErrConfig; an undecodable timestamp is a domain.ErrTimeParse.
	Load(ctx context.Context) (*domain.PersistedState, error)

	// Save replaces the save record. It returns only once the record is
	// durable.
	Save(ctx context.Context, state *domain.PersistedState) error
}

// CompletionRepository records satisfied daily quotas.
// This is a driven port (implemented by adapters).
type CompletionRepository interface {
	// Save persists a completion.
	Save(ctx context.Context, completion *domain.Completion) error

	// FindRecent retrieves completions at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error)

	// FindLatest returns the most recent completion, or nil when none exist.
	FindLatest(ctx context.Context) (*domain.Completion, error)
}

// Storage is the history database.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Completions provides access to completion records.
	Completions() CompletionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
