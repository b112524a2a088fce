package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
)

// ErrDuplicateCompletion is returned when a completion id is saved twice.
var ErrDuplicateCompletion = errors.New("completion already recorded")

// completionRepository implements ports.CompletionRepository using SQLite.
// Instants are stored as UTC unix milliseconds so range queries compare
// numerically.
type completionRepository struct {
	db *sql.DB
}

// newCompletionRepository creates a new completion repository.
func newCompletionRepository(db *sql.DB) ports.CompletionRepository {
	return &completionRepository{db: db}
}

// Save persists a completion to storage.
func (r *completionRepository) Save(ctx context.Context, c *domain.Completion) error {
	query := `
		INSERT INTO completions (
			id, started_at, completed_at, work_duration_ms, paused_ms, lateness_ms, git_branch, git_commit
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var lateness sql.NullInt64
	if c.Lateness != nil {
		lateness = sql.NullInt64{Int64: c.Lateness.Milliseconds(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.StartedAt.UnixMilli(),
		c.CompletedAt.UnixMilli(),
		c.WorkDuration.Milliseconds(),
		c.PausedFor.Milliseconds(),
		lateness,
		c.GitBranch,
		c.GitCommit,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateCompletion, c.ID)
		}
		return fmt.Errorf("failed to save completion: %w", err)
	}

	return nil
}

// FindRecent retrieves completions at or after since, newest first.
func (r *completionRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	query := `
		SELECT id, started_at, completed_at, work_duration_ms, paused_ms, lateness_ms, git_branch, git_commit
		FROM completions
		WHERE completed_at >= ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var completions []*domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// FindLatest returns the most recent completion, or nil when none exist.
func (r *completionRepository) FindLatest(ctx context.Context) (*domain.Completion, error) {
	query := `
		SELECT id, started_at, completed_at, work_duration_ms, paused_ms, lateness_ms, git_branch, git_commit
		FROM completions
		ORDER BY completed_at DESC
		LIMIT 1
	`

	c, err := scanCompletion(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompletion(row scanner) (*domain.Completion, error) {
	var (
		c                      domain.Completion
		startedMs, completedMs int64
		workMs, pausedMs       int64
		latenessMs             sql.NullInt64
		gitBranch, gitCommit   sql.NullString
	)
	err := row.Scan(&c.ID, &startedMs, &completedMs, &workMs, &pausedMs, &latenessMs, &gitBranch, &gitCommit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan completion: %w", err)
	}

	c.StartedAt = time.UnixMilli(startedMs).Local()
	c.CompletedAt = time.UnixMilli(completedMs).Local()
	c.WorkDuration = time.Duration(workMs) * time.Millisecond
	c.PausedFor = time.Duration(pausedMs) * time.Millisecond
	if latenessMs.Valid {
		late := time.Duration(latenessMs.Int64) * time.Millisecond
		c.Lateness = &late
	}
	c.GitBranch = gitBranch.String
	c.GitCommit = gitCommit.String
	return &c, nil
}
