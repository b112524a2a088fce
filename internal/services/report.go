package services

import (
	"time"

	"github.com/xvierd/detox-cli/internal/domain"
)

// StatusReport is the machine-readable form of a snapshot, shared by
// `detox status --json` and the MCP server.
type StatusReport struct {
	Status           string   `json:"status"`
	Label            string   `json:"label"`
	DetoxActive      bool     `json:"detox_active"`
	WorkSeconds      int64    `json:"work_seconds"`
	ElapsedSeconds   int64    `json:"elapsed_seconds"`
	RemainingSeconds int64    `json:"remaining_seconds"`
	Progress         float64  `json:"progress"`
	SessionStart     *string  `json:"session_start"`
	LastCompletion   *string  `json:"last_completion"`
	LatenessSeconds  *int64   `json:"lateness_seconds"`
	BlockedSites     []string `json:"blocked_sites"`
	// HostsBlocked is whether the host file holds the block lines. Nil
	// when it cannot be checked.
	HostsBlocked *bool `json:"hosts_blocked,omitempty"`
	Now              string   `json:"now"`
}

// NewStatusReport converts a snapshot.
func NewStatusReport(snap domain.Snapshot) StatusReport {
	r := StatusReport{
		Status:           snap.Status.String(),
		Label:            snap.Status.Label(),
		DetoxActive:      snap.DetoxActive,
		WorkSeconds:      int64(snap.WorkDuration / time.Second),
		ElapsedSeconds:   int64(snap.Elapsed / time.Second),
		RemainingSeconds: int64(snap.Remaining / time.Second),
		Progress:         snap.Progress,
		SessionStart:     formatOptional(snap.SessionStart),
		LastCompletion:   formatOptional(snap.LastCompletion),
		BlockedSites:     snap.BlockedDomains,
		Now:              snap.Now.Format(time.RFC3339),
	}
	if r.BlockedSites == nil {
		r.BlockedSites = []string{}
	}
	if snap.Lateness != nil {
		secs := int64(*snap.Lateness / time.Second)
		r.LatenessSeconds = &secs
	}
	return r
}

// CompletionReport is the machine-readable form of a completion.
type CompletionReport struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartedAt       string `json:"started_at"`
	CompletedAt     string `json:"completed_at"`
	WorkSeconds     int64  `json:"work_seconds"`
	PausedSeconds   int64  `json:"paused_seconds"`
	LatenessSeconds *int64 `json:"lateness_seconds"`
	GitBranch       string `json:"git_branch,omitempty"`
	GitCommit       string `json:"git_commit,omitempty"`
}

// NewCompletionReports converts completions, keeping their order.
func NewCompletionReports(completions []*domain.Completion) []CompletionReport {
	reports := make([]CompletionReport, 0, len(completions))
	for _, c := range completions {
		r := CompletionReport{
			ID:            c.ID,
			Date:          c.CompletedAt.Format(time.DateOnly),
			StartedAt:     c.StartedAt.Format(time.RFC3339),
			CompletedAt:   c.CompletedAt.Format(time.RFC3339),
			WorkSeconds:   int64(c.WorkDuration / time.Second),
			PausedSeconds: int64(c.PausedFor / time.Second),
			GitBranch:     c.GitBranch,
			GitCommit:     c.GitCommit,
		}
		if c.Lateness != nil {
			secs := int64(*c.Lateness / time.Second)
			r.LatenessSeconds = &secs
		}
		reports = append(reports, r)
	}
	return reports
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
