package cmd

import (
	"github.com/ocxtools/opencode-recall/internal"
	mcpserver "github.com/ocxtools/opencode-recall/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an MCP stdio server",
	Long: `Serve the session-search and session-transcript tools over MCP stdio.

Intended to be launched by an agent host. The protocol runs on
stdin/stdout; all logging goes to stderr so the transport stays clean.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		internal.LogInfo("Starting MCP stdio server (db: %s)", databasePath())
		return mcpserver.New(databasePath()).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
