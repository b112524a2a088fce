package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/detox-cli/internal/config"
	"github.com/xvierd/detox-cli/internal/ports"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	theme   *config.ThemeConfig
	options []tea.ProgramOption
}

// NewTimer creates a new TUI timer adapter. Extra program options are
// appended after the defaults.
func NewTimer(theme *config.ThemeConfig, options ...tea.ProgramOption) *Timer {
	return &Timer{theme: theme, options: options}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)

// Run starts the full-screen view and blocks until the user quits or ctx
// is cancelled. Bubbletea restores the terminal before Run returns, and a
// cancelled context counts as a normal exit.
func (t *Timer) Run(ctx context.Context, controller ports.Controller) error {
	model := NewModel(ctx, controller, t.theme)

	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}, t.options...)

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
