package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/domain"
	"github.com/xvierd/detox-cli/internal/services"
)

var historyDays int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed work days",
	Long:  `List recorded completions, newest first, with the current streak of completed work days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyDays <= 0 {
			return fmt.Errorf("--days must be positive, got %d", historyDays)
		}
		ctx := cmd.Context()

		completions, err := stateService.RecentCompletions(ctx, historyDays)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		streak, err := stateService.Streak(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}
		var latest *domain.Completion
		if len(completions) == 0 {
			if latest, err = stateService.LatestCompletion(ctx); err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"days":        historyDays,
				"streak":      streak,
				"completions": services.NewCompletionReports(completions),
			})
		}
		printHistoryText(cmd.OutOrStdout(), completions, latest, streak)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 7, "Number of days to include")
}

// printHistoryText lists completions. latest is only consulted when the
// window is empty, to say how long ago the last one was.
func printHistoryText(w io.Writer, completions []*domain.Completion, latest *domain.Completion, streak int) {
	fmt.Fprintf(w, "Streak: %d day(s)\n", streak)
	if len(completions) == 0 {
		if latest == nil {
			fmt.Fprintln(w, "No completions recorded.")
			return
		}
		fmt.Fprintf(w, "No completions in the last %d day(s). Last completion: %s\n",
			historyDays, latest.CompletedAt.Format("Mon 2006-01-02"))
		return
	}
	for _, c := range completions {
		line := fmt.Sprintf("%s  %s-%s  %s",
			c.CompletedAt.Format("Mon 2006-01-02"),
			c.StartedAt.Format("15:04"),
			c.CompletedAt.Format("15:04"),
			formatDuration(c.WorkDuration))
		if c.PausedFor > 0 {
			line += fmt.Sprintf("  (paused %s)", formatDuration(c.PausedFor))
		}
		if c.GitBranch != "" {
			line += "  [" + c.GitBranch
			if short := c.ShortCommit(); short != "" {
				line += "@" + short
			}
			line += "]"
		}
		fmt.Fprintln(w, line)
	}
}
