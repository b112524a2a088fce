package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/adapters/tui"
)

var errNoTerminal = errors.New("the timer needs an interactive terminal; use `detox status` instead")

// runTimer loads the save record, derives today's status and hands the
// terminal to the full-screen timer until the user quits.
func runTimer(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}

	ctx, cancel := setupSignalHandler()
	defer cancel()

	if err := detoxService.Start(ctx); err != nil {
		return err
	}

	timer := tui.NewTimer(&appConfig.Theme)
	if err := timer.Run(ctx, detoxService); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}
