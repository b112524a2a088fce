package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/adapters/statefile"
	"github.com/xvierd/detox-cli/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default settings and save files",
	Long: `Write a default settings file and an empty save record. Existing files
are left untouched.`,
	// Runs before a settings file exists, so it skips service setup.
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		path := configPath
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			path = p
		}

		written, err := config.WriteDefault(path)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "Wrote settings to %s\n", path)
		} else {
			fmt.Fprintf(out, "Settings already exist at %s\n", path)
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		savePath := statePath
		if savePath == "" {
			savePath = config.GetStatePath(cfg)
		}
		written, err = statefile.New(savePath).Init(cmd.Context())
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "Wrote save record to %s\n", savePath)
		} else {
			fmt.Fprintf(out, "Save record already exists at %s\n", savePath)
		}
		return nil
	},
}
