package services

import (
	"context"
	"time"

	"github.com/xvierd/detox-cli/internal/clock"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
)

// streakWindow bounds how far back Streak looks.
const streakWindow = 400 * 24 * time.Hour

// StateService implements the MCPStateProvider interface. It only reads:
// it never backs up the host file and never saves.
type StateService struct {
	clock    clock.Clock
	settings domain.Settings
	store    ports.StateStore
	history  ports.CompletionRepository
}

var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service. history may be nil.
func NewStateService(c clock.Clock, settings domain.Settings, store ports.StateStore, history ports.CompletionRepository) *StateService {
	if c == nil {
		c = clock.System{}
	}
	return &StateService{clock: c, settings: settings, store: store, history: history}
}

// Snapshot implements ports.MCPStateProvider.
func (s *StateService) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	now := s.clock.Now()
	status := domain.DeriveStatus(state, s.settings, now)
	return domain.NewSnapshot(status, state, s.settings, now), nil
}

// RecentCompletions implements ports.MCPStateProvider. days counts today.
func (s *StateService) RecentCompletions(ctx context.Context, days int) ([]*domain.Completion, error) {
	if s.history == nil {
		return nil, nil
	}
	if days < 1 {
		days = 1
	}
	now := s.clock.Now()
	y, m, d := now.Date()
	since := time.Date(y, m, d-(days-1), 0, 0, 0, 0, now.Location())
	return s.history.FindRecent(ctx, since)
}

// Streak implements ports.MCPStateProvider.
func (s *StateService) Streak(ctx context.Context) (int, error) {
	if s.history == nil {
		return 0, nil
	}
	now := s.clock.Now()
	completions, err := s.history.FindRecent(ctx, now.Add(-streakWindow))
	if err != nil {
		return 0, err
	}
	return domain.Streak(completions, now, s.settings.WeekendDays), nil
}

// LatestCompletion returns the most recent completion ever recorded, or nil.
func (s *StateService) LatestCompletion(ctx context.Context) (*domain.Completion, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.FindLatest(ctx)
}
