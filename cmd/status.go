package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/services"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's status",
	Long: `Derive and print today's status without touching the host file or the
save record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := stateService.Snapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		// Compare against the host file itself; a missing backup leaves it unknown.
		var hostsBlocked *bool
		if blocked, err := hostsBlocker.Engaged(snap.BlockedDomains); err == nil {
			hostsBlocked = &blocked
		}

		if jsonOutput {
			report := services.NewStatusReport(snap)
			report.HostsBlocked = hostsBlocked
			return writeJSON(cmd.OutOrStdout(), report)
		}
		printStatusText(cmd.OutOrStdout(), snap, hostsBlocked)
		return nil
	},
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, snap domain.Snapshot, hostsBlocked *bool) {
	fmt.Fprintln(w, snap.Status.Label())
	fmt.Fprintf(w, "   Status: %s\n", snap.Status)
	fmt.Fprintf(w, "   Block: %s\n", blockLabel(snap.DetoxActive))
	switch {
	case hostsBlocked == nil:
		fmt.Fprintln(w, "   Host file: unknown (no backup)")
	case *hostsBlocked != snap.DetoxActive:
		fmt.Fprintf(w, "   Host file: %s (does not match the save record)\n", blockLabel(*hostsBlocked))
	default:
		fmt.Fprintf(w, "   Host file: %s\n", blockLabel(*hostsBlocked))
	}
	fmt.Fprintf(w, "   Quota: %s\n", formatDuration(snap.WorkDuration))

	if snap.Status.HasTimer() {
		fmt.Fprintf(w, "   Started: %s\n", snap.SessionStart.Format("15:04"))
		fmt.Fprintf(w, "   Worked: %s\n", formatDuration(snap.Elapsed))
		fmt.Fprintf(w, "   Remaining: %s\n", formatDuration(snap.Remaining))
		fmt.Fprintf(w, "   Progress: %.0f%%\n", snap.Progress*100)
	}
	if snap.LastCompletion != nil {
		fmt.Fprintf(w, "   Last completion: %s\n", snap.LastCompletion.Format("2006-01-02 15:04"))
	}
	if len(snap.BlockedDomains) > 0 {
		fmt.Fprintf(w, "   Sites: %s\n", strings.Join(snap.BlockedDomains, ", "))
	}
}

func blockLabel(active bool) string {
	if active {
		return "engaged"
	}
	return "off"
}

// formatDuration formats a duration as a short human string such as
// "3h25m" or "40s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
