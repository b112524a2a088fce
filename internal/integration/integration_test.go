package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/detox-cli/internal/adapters/hosts"
	"github.com/xvierd/detox-cli/internal/adapters/statefile"
	"github.com/xvierd/detox-cli/internal/adapters/storage"
	"github.com/xvierd/detox-cli/internal/clock"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
	"github.com/xvierd/detox-cli/internal/services"
)

const originalHosts = "127.0.0.1\tlocalhost\n::1\tlocalhost\n"

// fixture is a data directory with real adapters behind a fake clock.
type fixture struct {
	dir     string
	clock   *clock.Fake
	store   *statefile.Store
	blocker *hosts.Blocker
	storage ports.Storage
	hosts   string
}

func setup(t *testing.T, now time.Time) *fixture {
	t.Helper()

	dir := t.TempDir()
	hostsPath := filepath.Join(dir, "hosts")
	if err := os.WriteFile(hostsPath, []byte(originalHosts), 0644); err != nil {
		t.Fatalf("failed to write hosts: %v", err)
	}

	store, err := storage.New(filepath.Join(dir, "detox.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		dir:     dir,
		clock:   clock.NewFake(now),
		store:   statefile.New(filepath.Join(dir, "save.toml")),
		blocker: hosts.NewBlocker(hostsPath, filepath.Join(dir, "hosts.backup"), filepath.Join(dir, "hosts.lock")),
		storage: store,
		hosts:   hostsPath,
	}
	if _, err := f.store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init save record: %v", err)
	}
	return f
}

// service builds a fresh state machine over the fixture, as a new process would.
func (f *fixture) service(t *testing.T, settings domain.Settings) *services.DetoxService {
	t.Helper()
	svc := services.NewDetoxService(services.DetoxDeps{
		Clock:    f.clock,
		Settings: settings,
		Store:    f.store,
		Blocker:  f.blocker,
		History:  f.storage.Completions(),
	})
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return svc
}

func (f *fixture) readHosts(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.hosts)
	if err != nil {
		t.Fatalf("failed to read hosts: %v", err)
	}
	return string(data)
}

func settings(work time.Duration) domain.Settings {
	return domain.Settings{
		WorkDuration:   work,
		BlockedDomains: []string{"example.com"},
		WeekendDays:    []time.Weekday{time.Saturday, time.Sunday},
	}
}

var tuesday = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.Local)

// TestFullDay walks a weekday from blocking to completion and restarts the
// process at each step.
func TestFullDay(t *testing.T) {
	ctx := context.Background()
	f := setup(t, tuesday)
	cfg := settings(5 * time.Second)

	svc := f.service(t, cfg)
	if svc.Status() != domain.StatusNeedsBlock {
		t.Fatalf("initial status = %s, want needs_block", svc.Status())
	}
	if _, err := os.Stat(filepath.Join(f.dir, "hosts.backup")); err != nil {
		t.Fatalf("backup should be taken at startup: %v", err)
	}

	// 1. Confirm engages the block.
	if err := svc.Handle(ctx, ports.CmdConfirm); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if svc.Status() != domain.StatusReadyToStart {
		t.Fatalf("status = %s, want ready_to_start", svc.Status())
	}
	want := originalHosts + hosts.BlockLines(cfg.BlockedDomains)
	if got := f.readHosts(t); got != want {
		t.Fatalf("hosts = %q, want %q", got, want)
	}

	// A restart while blocked resumes ready to start, without a second backup.
	svc = f.service(t, cfg)
	if svc.Status() != domain.StatusReadyToStart {
		t.Fatalf("restart status = %s, want ready_to_start", svc.Status())
	}

	// 2. Confirm starts working.
	if err := svc.Handle(ctx, ports.CmdConfirm); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if svc.Status() != domain.StatusWorking {
		t.Fatalf("status = %s, want working", svc.Status())
	}
	state, err := f.store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.SessionStart == nil || !state.SessionStart.Equal(tuesday) {
		t.Fatalf("session start = %v, want %v", state.SessionStart, tuesday)
	}

	// 3. A tick before the quota changes nothing.
	f.clock.Advance(4 * time.Second)
	if err := svc.Tick(ctx); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if svc.Status() != domain.StatusWorking {
		t.Fatalf("status = %s, want working", svc.Status())
	}

	// 4. Reaching the quota completes the day and lifts the block.
	f.clock.Advance(time.Second)
	if err := svc.Tick(ctx); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if svc.Status() != domain.StatusCompletedToday {
		t.Fatalf("status = %s, want completed_today", svc.Status())
	}
	if got := f.readHosts(t); got != originalHosts {
		t.Errorf("hosts after completion = %q, want original", got)
	}

	state, err = f.store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.DetoxActive || state.SessionStart != nil {
		t.Errorf("session should be cleared, got %+v", state)
	}
	if state.LastCompletion == nil || !domain.SameDay(*state.LastCompletion, tuesday, time.Local) {
		t.Errorf("last completion = %v, want today", state.LastCompletion)
	}

	latest, err := f.storage.Completions().FindLatest(ctx)
	if err != nil {
		t.Fatalf("FindLatest() error = %v", err)
	}
	if latest == nil || latest.WorkDuration != 5*time.Second {
		t.Errorf("latest completion = %+v, want 5s quota", latest)
	}

	// The rest of the day stays completed.
	f.clock.Advance(2 * time.Hour)
	svc = f.service(t, cfg)
	if svc.Status() != domain.StatusCompletedToday {
		t.Errorf("restart status = %s, want completed_today", svc.Status())
	}

	// The next morning starts over.
	f.clock.Set(tuesday.AddDate(0, 0, 1))
	svc = f.service(t, cfg)
	if svc.Status() != domain.StatusNeedsBlock {
		t.Errorf("next day status = %s, want needs_block", svc.Status())
	}
}

func TestResumeAfterRestart(t *testing.T) {
	ctx := context.Background()
	wednesday := tuesday.AddDate(0, 0, 1)
	f := setup(t, wednesday)

	start := wednesday.Add(-2 * time.Hour)
	if err := f.store.Save(ctx, &domain.PersistedState{DetoxActive: true, SessionStart: &start}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	svc := f.service(t, settings(4*time.Hour))
	if svc.Status() != domain.StatusWorking {
		t.Fatalf("status = %s, want working", svc.Status())
	}
	if snap := svc.Snapshot(); snap.Remaining != 2*time.Hour {
		t.Errorf("remaining = %v, want 2h", snap.Remaining)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "hosts.backup")); !os.IsNotExist(err) {
		t.Errorf("no backup should be taken while the block is engaged, stat err = %v", err)
	}
}

func TestPauseSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	f := setup(t, tuesday)
	cfg := settings(time.Hour)

	svc := f.service(t, cfg)
	for i := 0; i < 2; i++ {
		if err := svc.Handle(ctx, ports.CmdConfirm); err != nil {
			t.Fatalf("confirm %d failed: %v", i, err)
		}
	}

	f.clock.Advance(10 * time.Minute)
	if err := svc.Handle(ctx, ports.CmdPause); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	f.clock.Advance(30 * time.Minute)
	svc = f.service(t, cfg)
	if svc.Status() != domain.StatusOnBreak {
		t.Fatalf("restart status = %s, want on_break", svc.Status())
	}
	if snap := svc.Snapshot(); snap.Elapsed != 10*time.Minute {
		t.Errorf("elapsed while paused = %v, want 10m", snap.Elapsed)
	}

	if err := svc.Handle(ctx, ports.CmdResume); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	f.clock.Advance(50 * time.Minute)
	if err := svc.Tick(ctx); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if svc.Status() != domain.StatusCompletedToday {
		t.Errorf("status = %s, want completed_today", svc.Status())
	}
}

func TestUnblockRestoresHosts(t *testing.T) {
	ctx := context.Background()
	f := setup(t, tuesday)
	cfg := settings(time.Hour)

	svc := f.service(t, cfg)
	if err := svc.Handle(ctx, ports.CmdConfirm); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if err := f.service(t, cfg).Unblock(ctx); err != nil {
		t.Fatalf("Unblock() error = %v", err)
	}
	if got := f.readHosts(t); !bytes.Equal([]byte(got), []byte(originalHosts)) {
		t.Errorf("hosts = %q, want original", got)
	}

	svc = f.service(t, cfg)
	if svc.Status() != domain.StatusNeedsBlock {
		t.Errorf("status after unblock = %s, want needs_block", svc.Status())
	}
}

func TestUnblockWithoutBlockKeepsHostEdits(t *testing.T) {
	ctx := context.Background()
	f := setup(t, tuesday)
	cfg := settings(time.Hour)

	// A launch takes the backup without engaging anything.
	f.service(t, cfg)

	edited := originalHosts + "10.0.0.5\tnas.local\n"
	if err := os.WriteFile(f.hosts, []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	svc := services.NewDetoxService(services.DetoxDeps{
		Clock:    f.clock,
		Settings: cfg,
		Store:    f.store,
		Blocker:  f.blocker,
	})
	if err := svc.Unblock(ctx); !errors.Is(err, domain.ErrNotEngaged) {
		t.Fatalf("Unblock() error = %v, want ErrNotEngaged", err)
	}
	if got := f.readHosts(t); got != edited {
		t.Errorf("hosts = %q, want %q", got, edited)
	}
}

func TestWeekend(t *testing.T) {
	saturday := time.Date(2024, time.March, 9, 11, 0, 0, 0, time.Local)
	f := setup(t, saturday)

	svc := f.service(t, settings(time.Hour))
	if svc.Status() != domain.StatusWeekend {
		t.Errorf("status = %s, want weekend", svc.Status())
	}
}
