package cmd

import (
	"fmt"
	"os"

	"github.com/ocxtools/opencode-recall/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opencode-recall",
	Short: "Search and replay opencode chat history",
	Long: `A read-only search and transcript tool for the opencode chat-history database.

opencode-recall never writes to the store. It finds past sessions by
keyword, replays full conversations, and exposes the same two operations
to agent hosts over MCP stdio.

Quick Start:
  opencode-recall search rollback migration   # Find sessions about a topic
  opencode-recall transcript <session-id>     # Replay a conversation
  opencode-recall export <session-id> -f md   # Export a transcript
  opencode-recall serve                       # Run as an MCP stdio server

The database is located via OPENCODE_RECALL_DB, the opencode CLI, or the
default install path; --db overrides all of them.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// databasePath resolves the store location for the current invocation.
// An explicit --db wins unconditionally; otherwise the process-wide
// resolution chain (env, opencode CLI, default path) applies.
func databasePath() string {
	if dbPath != "" {
		return dbPath
	}
	return internal.StorePath("")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the opencode database (overrides auto-detection)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
