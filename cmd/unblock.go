package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/domain"
)

// unblockCmd represents the unblock command
var unblockCmd = &cobra.Command{
	Use:   "unblock",
	Short: "Restore the host file and clear today's session",
	Long: `Emergency exit: restore the host file from its backup and clear the
running session. The last completion date is kept, so a day that was
already completed stays completed. When no block is engaged the host
file is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := detoxService.Unblock(cmd.Context())
		if errors.Is(err, domain.ErrNotEngaged) {
			fmt.Fprintf(cmd.OutOrStdout(), "No block engaged; %s left untouched\n", appConfig.HostsFile)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to unblock: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", appConfig.HostsFile, appConfig.BackupFile)
		return nil
	},
}
