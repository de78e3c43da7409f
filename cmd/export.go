package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ocxtools/opencode-recall/internal"
	"github.com/ocxtools/opencode-recall/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat       string
	exportOutput       string
	exportIncludeEmpty bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript to file",
	Long: `Export the transcript of a session in various formats (jsonl, md, yaml, json).

Writes to stdout unless --output is given. Use 'opencode-recall search'
to find session IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		// Export always carries the whole transcript in ascending order.
		result, err := internal.Transcript(databasePath(), sessionID, internal.MaxTranscriptLimit, "asc", exportIncludeEmpty)
		if err != nil {
			return err
		}
		if result.Error != nil {
			return fmt.Errorf("%s: %s", result.Error.Code, result.Error.Message)
		}
		if !result.Found {
			return fmt.Errorf("session not found: %s", sessionID)
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			file, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if err := file.Close(); err != nil {
					internal.LogWarn("Failed to close file %s: %v", exportOutput, err)
				}
			}()
			w = file
		}

		if err := exporter.Export(result, w); err != nil {
			return fmt.Errorf("failed to export session %s: %w", sessionID, err)
		}

		if exportOutput != "" {
			internal.LogInfo("Exported session %s to %s", sessionID, exportOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportIncludeEmpty, "include-empty", false, "Include entries whose text is empty")
}
