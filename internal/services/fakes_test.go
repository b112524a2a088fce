package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
)

var errDisk = errors.New("disk full")

type fakeStore struct {
	state    *domain.PersistedState
	saves    int
	failSave bool
}

func (f *fakeStore) Load(ctx context.Context) (*domain.PersistedState, error) {
	if f.state == nil {
		return nil, domain.ErrConfig
	}
	return f.state.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, state *domain.PersistedState) error {
	if f.failSave {
		return errDisk
	}
	f.saves++
	f.state = state.Clone()
	return nil
}

// fakeBlocker keeps an in-memory host file.
type fakeBlocker struct {
	hosts      string
	backup     *string
	engaged    [][]string
	backups    int
	reverts    int
	failBackup bool
	failEngage bool
	failRevert bool
}

func (f *fakeBlocker) Backup(ctx context.Context) error {
	if f.failBackup {
		return domain.ErrIO
	}
	f.backups++
	b := f.hosts
	f.backup = &b
	return nil
}

func (f *fakeBlocker) Engage(ctx context.Context, domains []string) error {
	if f.failEngage {
		return domain.ErrIO
	}
	f.engaged = append(f.engaged, domains)
	var b strings.Builder
	b.WriteString("\n")
	for _, d := range domains {
		b.WriteString("127.0.0.1  " + d + "\n")
	}
	f.hosts += b.String()
	return nil
}

func (f *fakeBlocker) Revert(ctx context.Context) error {
	if f.failRevert {
		return domain.ErrIO
	}
	if f.backup == nil {
		return domain.ErrBackupMissing
	}
	f.reverts++
	f.hosts = *f.backup
	return nil
}

type fakeHistory struct {
	saved []*domain.Completion
	fail  bool
}

func (f *fakeHistory) Save(ctx context.Context, c *domain.Completion) error {
	if f.fail {
		return errDisk
	}
	f.saved = append(f.saved, c)
	return nil
}

func (f *fakeHistory) FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	var out []*domain.Completion
	for _, c := range f.saved {
		if !c.CompletedAt.Before(since) {
			out = append(out, c)
		}
	}
	domain.SortNewestFirst(out)
	return out, nil
}

func (f *fakeHistory) FindLatest(ctx context.Context) (*domain.Completion, error) {
	out, _ := f.FindRecent(ctx, time.Time{})
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

type fakeNotifier struct {
	notified []time.Duration
}

func (f *fakeNotifier) NotifyQuotaComplete(worked time.Duration) error {
	f.notified = append(f.notified, worked)
	return nil
}

type fakeGit struct{}

func (fakeGit) Detect(ctx context.Context, dir string) (*ports.GitInfo, error) {
	return &ports.GitInfo{Branch: "feature/focus", Commit: "0123456789abcdef"}, nil
}
