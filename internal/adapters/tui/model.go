// Package tui provides the full-screen terminal view of the detox timer
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/detox-cli/internal/config"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/ports"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// Model is the bubbletea model. It calls the controller from Update only,
// so every transition runs on the program's event loop.
type Model struct {
	ctx        context.Context
	controller ports.Controller
	snap       domain.Snapshot
	lastErr    error
	width      int
	height     int
	theme      config.ThemeConfig
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, controller ports.Controller, theme *config.ThemeConfig) Model {
	m := Model{
		ctx:        ctx,
		controller: controller,
		theme:      resolveTheme(theme),
	}
	m.refresh()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			m.handle(ports.CmdConfirm)
		case "p":
			switch m.snap.Status {
			case domain.StatusWorking:
				m.handle(ports.CmdPause)
			case domain.StatusOnBreak:
				m.handle(ports.CmdResume)
			}
		}
		return m, nil

	case tickMsg:
		_ = m.controller.Tick(m.ctx)
		m.refresh()
		if m.snap.Status.IsTerminal() {
			// Nothing can change for the rest of the run.
			return m, nil
		}
		return m, tickCmd()
	}

	return m, nil
}

// handle applies cmd and then runs the completion check, so a key press
// never delays a due completion until the next tick.
func (m *Model) handle(cmd ports.TimerCommand) {
	_ = m.controller.Handle(m.ctx, cmd)
	_ = m.controller.Tick(m.ctx)
	m.refresh()
}

// refresh pulls the latest snapshot and error from the controller. Errors
// are shown from LastError so that failures at startup appear too.
func (m *Model) refresh() {
	m.snap = m.controller.Snapshot()
	m.lastErr = m.controller.LastError()
}

// statusColor returns the accent color for the current status.
func (m Model) statusColor() lipgloss.Color {
	switch m.snap.Status {
	case domain.StatusOnBreak:
		return lipgloss.Color(m.theme.ColorBreak)
	case domain.StatusCompletedToday, domain.StatusWeekend:
		return lipgloss.Color(m.theme.ColorDone)
	default:
		return lipgloss.Color(m.theme.ColorWork)
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(m.statusColor())
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections := []string{
		titleStyle.Render("detox"),
		labelStyle.Render(m.snap.Status.Label()),
		"",
	}
	sections = append(sections, m.viewTimer()...)

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorError))
		sections = append(sections, "", errStyle.Render(fmt.Sprintf("Error: %v", m.lastErr)))
	}

	sections = append(sections, "", infoStyle.Render(helpText(m.snap.Status)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer() []string {
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	if !m.snap.Status.HasTimer() {
		switch m.snap.Status {
		case domain.StatusNeedsBlock, domain.StatusReadyToStart:
			return []string{
				infoStyle.Render("Time has not started yet"),
				infoStyle.Render(fmt.Sprintf("Today's quota: %s", formatClock(m.snap.WorkDuration))),
			}
		case domain.StatusCompletedToday:
			return []string{infoStyle.Render("Timer finished!")}
		}
		return nil
	}

	sections := []string{renderBigTime(formatClock(m.snap.Remaining), m.statusColor(), m.width)}

	if m.snap.Status == domain.StatusOnBreak {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorBreak)).
			Padding(0, 1).
			Render("ON BREAK")
		sections = append(sections, "", badge)
	}

	pbar := progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	pbar.Width = m.width - 4
	sections = append(sections, "", pbar.ViewAs(m.snap.Progress))
	sections = append(sections, infoStyle.Render(fmt.Sprintf("Worked %s of %s", formatClock(m.snap.Elapsed), formatClock(m.snap.WorkDuration))))

	if m.snap.Lateness != nil {
		sections = append(sections, infoStyle.Render(formatLateness(*m.snap.Lateness)))
	}
	return sections
}

func helpText(status domain.SessionStatus) string {
	switch status {
	case domain.StatusNeedsBlock:
		return "[space] block sites  [q]uit"
	case domain.StatusReadyToStart:
		return "[space] start working  [q]uit"
	case domain.StatusWorking:
		return "[p]ause  [q]uit"
	case domain.StatusOnBreak:
		return "[p] resume  [q]uit"
	default:
		return "[q]uit"
	}
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// formatClock formats a duration as H:MM:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// formatLateness describes a signed start delay.
func formatLateness(late time.Duration) string {
	late = late.Round(time.Minute)
	switch {
	case late > 0:
		return fmt.Sprintf("Started %s late", late)
	case late < 0:
		return fmt.Sprintf("Started %s early", -late)
	default:
		return "Started on time"
	}
}
