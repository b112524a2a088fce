// Package services implements the detox use cases on top of the ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/xvierd/detox-cli/internal/clock"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
)

// DetoxDeps are the collaborators of a DetoxService. History, Notifier,
// Git and Logger are optional.
type DetoxDeps struct {
	Clock      clock.Clock
	Settings   domain.Settings
	Store      ports.StateStore
	Blocker    ports.Blocker
	History    ports.CompletionRepository
	Notifier   ports.Notifier
	Git        ports.GitDetector
	WorkingDir string
	Logger     *log.Logger
}

// DetoxService is the work session state machine. It owns the in-memory
// copy of the save record and writes every change through before the
// status moves. All methods must be called from one goroutine.
type DetoxService struct {
	deps    DetoxDeps
	log     *log.Logger
	state   *domain.PersistedState
	status  domain.SessionStatus
	backup  bool
	lastErr error
}

var _ ports.Controller = (*DetoxService)(nil)

// NewDetoxService creates the state machine. Start must be called before
// any trigger.
func NewDetoxService(deps DetoxDeps) *DetoxService {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	return &DetoxService{deps: deps, log: logger}
}

// Start loads the save record and derives the starting status. When the
// block is not engaged the host file is backed up first. A load failure is
// fatal; a failed backup is surfaced and retried on the next confirm.
func (s *DetoxService) Start(ctx context.Context) error {
	state, err := s.deps.Store.Load(ctx)
	if err != nil {
		return err
	}
	s.state = state

	if !state.DetoxActive {
		s.tryBackup(ctx)
	}

	s.status = domain.DeriveStatus(state, s.deps.Settings, s.deps.Clock.Now())
	s.log.Printf("started in %s (detox=%t)", s.status, state.DetoxActive)
	return nil
}

// Status returns the current status.
func (s *DetoxService) Status() domain.SessionStatus {
	return s.status
}

// State returns a copy of the in-memory save record.
func (s *DetoxService) State() *domain.PersistedState {
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

// LastError implements ports.Controller.
func (s *DetoxService) LastError() error {
	return s.lastErr
}

// Snapshot implements ports.Controller.
func (s *DetoxService) Snapshot() domain.Snapshot {
	state := s.state
	if state == nil {
		state = &domain.PersistedState{}
	}
	return domain.NewSnapshot(s.status, state, s.deps.Settings, s.deps.Clock.Now())
}

// Handle implements ports.Controller.
func (s *DetoxService) Handle(ctx context.Context, cmd ports.TimerCommand) error {
	switch cmd {
	case ports.CmdConfirm:
		return s.Confirm(ctx)
	case ports.CmdPause:
		return s.Pause(ctx)
	case ports.CmdResume:
		return s.Resume(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// Confirm engages the block from NeedsBlock, or starts the timer from
// ReadyToStart. In any other status it does nothing.
func (s *DetoxService) Confirm(ctx context.Context) error {
	switch s.status {
	case domain.StatusNeedsBlock:
		return s.engage(ctx)
	case domain.StatusReadyToStart:
		return s.beginWork(ctx)
	default:
		return nil
	}
}

// Pause freezes the countdown while Working.
func (s *DetoxService) Pause(ctx context.Context) error {
	if s.status != domain.StatusWorking {
		return nil
	}
	now := s.deps.Clock.Now()
	next := s.state.Clone()
	next.PausedAt = &now
	if err := s.save(ctx, next); err != nil {
		return s.fail(err)
	}
	s.moveTo(next, domain.StatusOnBreak)
	return nil
}

// Resume continues the countdown from OnBreak.
func (s *DetoxService) Resume(ctx context.Context) error {
	if s.status != domain.StatusOnBreak {
		return nil
	}
	now := s.deps.Clock.Now()
	next := s.state.Clone()
	if next.PausedAt != nil && now.After(*next.PausedAt) {
		next.PausedFor += now.Sub(*next.PausedAt)
	}
	next.PausedAt = nil
	if err := s.save(ctx, next); err != nil {
		return s.fail(err)
	}
	s.moveTo(next, domain.StatusWorking)
	return nil
}

// Tick completes the session once the quota is reached. Completion lifts
// the block first; if that fails the session stays Working and the next
// tick tries again.
func (s *DetoxService) Tick(ctx context.Context) error {
	if s.status != domain.StatusWorking {
		return nil
	}
	now := s.deps.Clock.Now()
	if !domain.QuotaReached(s.state, s.deps.Settings.WorkDuration, now) {
		return nil
	}

	if err := s.deps.Blocker.Revert(ctx); err != nil {
		return s.fail(fmt.Errorf("lift block: %w", err))
	}

	completion := domain.NewCompletion(s.state, s.deps.Settings, now)
	next := s.state.Clone()
	next.DetoxActive = false
	next.LastCompletion = &now
	next.ClearSession()

	// The block is already gone, so the in-memory state moves on even if
	// the record cannot be written.
	saveErr := s.save(ctx, next)
	s.moveTo(next, domain.StatusCompletedToday)
	if saveErr != nil {
		s.fail(saveErr)
	}

	s.record(ctx, completion)
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.NotifyQuotaComplete(completion.WorkDuration); err != nil {
			s.log.Printf("notification failed: %v", err)
		}
	}
	return saveErr
}

// Unblock lifts the block outside the normal flow: the host file is
// restored and the session cleared. The last completion is kept. The save
// record is read first; when it has no block engaged the host file is left
// alone and domain.ErrNotEngaged is returned.
func (s *DetoxService) Unblock(ctx context.Context) error {
	state := s.state
	if state == nil {
		loaded, err := s.deps.Store.Load(ctx)
		if err != nil {
			return err
		}
		state = loaded
	}
	if !state.DetoxActive {
		return domain.ErrNotEngaged
	}

	if err := s.deps.Blocker.Revert(ctx); err != nil {
		return err
	}

	next := state.Clone()
	next.DetoxActive = false
	next.ClearSession()
	if err := s.save(ctx, next); err != nil {
		// The record still says engaged, so put the block back.
		if rerr := s.deps.Blocker.Engage(ctx, s.deps.Settings.BlockedDomains); rerr != nil {
			s.log.Printf("re-engaging block failed: %v", rerr)
			return errors.Join(err, fmt.Errorf("re-engage: %w", rerr))
		}
		return err
	}
	s.log.Printf("block lifted manually")
	s.state = next
	s.status = domain.DeriveStatus(next, s.deps.Settings, s.deps.Clock.Now())
	return nil
}

func (s *DetoxService) engage(ctx context.Context) error {
	if !s.backup && !s.tryBackup(ctx) {
		return s.lastErr
	}

	if err := s.deps.Blocker.Engage(ctx, s.deps.Settings.BlockedDomains); err != nil {
		return s.fail(fmt.Errorf("engage block: %w", err))
	}

	next := s.state.Clone()
	next.DetoxActive = true
	if err := s.save(ctx, next); err != nil {
		// Never leave the block engaged without a record saying so.
		if rerr := s.deps.Blocker.Revert(ctx); rerr != nil {
			s.log.Printf("rollback of block failed: %v", rerr)
			return s.fail(errors.Join(err, fmt.Errorf("rollback: %w", rerr)))
		}
		return s.fail(err)
	}
	s.moveTo(next, domain.StatusReadyToStart)
	return nil
}

// beginWork starts the countdown. An existing session start is kept so a
// restarted session never loses worked time.
func (s *DetoxService) beginWork(ctx context.Context) error {
	next := s.state.Clone()
	if next.SessionStart == nil {
		now := s.deps.Clock.Now()
		next.SessionStart = &now
	}
	if err := s.save(ctx, next); err != nil {
		return s.fail(err)
	}
	s.moveTo(next, domain.StatusWorking)
	return nil
}

func (s *DetoxService) tryBackup(ctx context.Context) bool {
	if err := s.deps.Blocker.Backup(ctx); err != nil {
		s.fail(fmt.Errorf("back up host file: %w", err))
		return false
	}
	s.backup = true
	return true
}

func (s *DetoxService) save(ctx context.Context, next *domain.PersistedState) error {
	if err := s.deps.Store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *DetoxService) moveTo(next *domain.PersistedState, status domain.SessionStatus) {
	s.log.Printf("%s -> %s", s.status, status)
	s.state = next
	s.status = status
	s.lastErr = nil
}

func (s *DetoxService) fail(err error) error {
	s.log.Printf("error in %s: %v", s.status, err)
	s.lastErr = err
	return err
}

func (s *DetoxService) record(ctx context.Context, c *domain.Completion) {
	if s.deps.History == nil {
		return
	}
	if s.deps.Git != nil {
		if info, err := s.deps.Git.Detect(ctx, s.deps.WorkingDir); err == nil {
			c.GitBranch = info.Branch
			c.GitCommit = info.Commit
		}
	}
	if err := s.deps.History.Save(ctx, c); err != nil {
		s.log.Printf("failed to record completion: %v", err)
	}
}
