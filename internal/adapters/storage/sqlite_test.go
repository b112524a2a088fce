package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/detox-cli/internal/domain"
)

func TestNewMemory(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	if err := storage.Migrate(); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func newCompletion(id string, completedAt time.Time) *domain.Completion {
	late := 5 * time.Minute
	return &domain.Completion{
		ID:           id,
		StartedAt:    completedAt.Add(-4 * time.Hour),
		CompletedAt:  completedAt,
		WorkDuration: 4 * time.Hour,
		PausedFor:    90 * time.Second,
		Lateness:     &late,
		GitBranch:    "main",
		GitCommit:    "0123456789abcdef",
	}
}

func TestCompletionRepository_SaveAndFind(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.Completions()
	base := time.Date(2024, 3, 5, 17, 0, 0, 0, time.Local)

	t.Run("empty latest", func(t *testing.T) {
		latest, err := repo.FindLatest(ctx)
		if err != nil {
			t.Fatalf("FindLatest() error = %v", err)
		}
		if latest != nil {
			t.Errorf("FindLatest() = %+v, want nil", latest)
		}
	})

	for i, id := range []string{"c1", "c2", "c3"} {
		if err := repo.Save(ctx, newCompletion(id, base.AddDate(0, 0, -i))); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	t.Run("find recent newest first", func(t *testing.T) {
		recent, err := repo.FindRecent(ctx, base.AddDate(0, 0, -1))
		if err != nil {
			t.Fatalf("FindRecent() error = %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("FindRecent() returned %d completions, want 2", len(recent))
		}
		if recent[0].ID != "c1" || recent[1].ID != "c2" {
			t.Errorf("FindRecent() order = %s, %s; want c1, c2", recent[0].ID, recent[1].ID)
		}
	})

	t.Run("fields survive", func(t *testing.T) {
		latest, err := repo.FindLatest(ctx)
		if err != nil {
			t.Fatalf("FindLatest() error = %v", err)
		}
		want := newCompletion("c1", base)
		if latest.ID != want.ID || !latest.CompletedAt.Equal(want.CompletedAt) || !latest.StartedAt.Equal(want.StartedAt) {
			t.Errorf("FindLatest() = %+v, want %+v", latest, want)
		}
		if latest.WorkDuration != want.WorkDuration || latest.PausedFor != want.PausedFor {
			t.Errorf("durations = %v/%v, want %v/%v", latest.WorkDuration, latest.PausedFor, want.WorkDuration, want.PausedFor)
		}
		if latest.Lateness == nil || *latest.Lateness != 5*time.Minute {
			t.Errorf("Lateness = %v, want 5m", latest.Lateness)
		}
		if latest.GitBranch != "main" || latest.GitCommit != "0123456789abcdef" {
			t.Errorf("git = %q@%q, want main@0123456789abcdef", latest.GitBranch, latest.GitCommit)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.Save(ctx, newCompletion("c1", base))
		if !errors.Is(err, ErrDuplicateCompletion) {
			t.Errorf("Save() duplicate error = %v, want ErrDuplicateCompletion", err)
		}
	})

	t.Run("nil lateness", func(t *testing.T) {
		c := newCompletion("c4", base.AddDate(0, 0, -10))
		c.Lateness = nil
		if err := repo.Save(ctx, c); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		recent, _ := repo.FindRecent(ctx, base.AddDate(0, 0, -10))
		last := recent[len(recent)-1]
		if last.ID != "c4" || last.Lateness != nil {
			t.Errorf("oldest = %+v, want c4 with nil lateness", last)
		}
	})
}

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detox.db")
	ctx := context.Background()

	storage, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := storage.Completions().Save(ctx, newCompletion("keep", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = storage.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	latest, err := reopened.Completions().FindLatest(ctx)
	if err != nil || latest == nil || latest.ID != "keep" {
		t.Errorf("FindLatest() = %+v, %v; want keep", latest, err)
	}
}
