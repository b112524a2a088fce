package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server is read-only: it reports today's status and the completion history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler()
		defer cancel()

		logger.Printf("mcp server starting")
		server := mcp.NewServer(stateService, Version)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
