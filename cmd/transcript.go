package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ocxtools/opencode-recall/internal"
	"github.com/spf13/cobra"
)

var (
	transcriptLimit        int
	transcriptOrder        string
	transcriptIncludeEmpty bool
	transcriptJSON         bool
)

var (
	// Styles for transcript command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript <session-id>",
	Short: "Replay the conversation of a session",
	Long: `Display the user and assistant messages of a session in order.
Use --order desc to see the most recent messages first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		result, err := internal.Transcript(databasePath(), sessionID, transcriptLimit, transcriptOrder, transcriptIncludeEmpty)
		if err != nil {
			return err
		}

		if transcriptJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.Error != nil {
			return fmt.Errorf("%s: %s", result.Error.Code, result.Error.Message)
		}

		if !result.Found {
			return fmt.Errorf("session not found: %s (use 'opencode-recall search' to find session IDs)", sessionID)
		}

		displayTranscriptHeader(result)
		for i, entry := range result.Entries {
			displayEntry(i+1, entry, len(result.Entries))
		}

		return nil
	},
}

func displayTranscriptHeader(result *internal.TranscriptResult) {
	name := result.SessionID
	if result.Session != nil && result.Session.Title != "" {
		name = result.Session.Title
	}
	fmt.Println(sessionHeaderStyle.Render(name))

	var metaParts []string
	if result.Session != nil {
		if result.Session.Created != "" {
			metaParts = append(metaParts, fmt.Sprintf("Created: %s", result.Session.Created))
		}
		if result.Session.ProjectName != "" {
			metaParts = append(metaParts, fmt.Sprintf("Project: %s", result.Session.ProjectName))
		}
		if result.Session.Directory != "" {
			metaParts = append(metaParts, fmt.Sprintf("Directory: %s", result.Session.Directory))
		}
	}
	metaParts = append(metaParts, fmt.Sprintf("Entries: %d", result.Stats.EntriesReturned))

	fmt.Println(sessionMetaStyle.Render(strings.Join(metaParts, " | ")))
	fmt.Println()
}

func displayEntry(index int, entry internal.TranscriptEntry, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch entry.Role {
	case "user":
		actorStyle = userMessageStyle
		actorLabel = "User"
	case "assistant":
		actorStyle = assistantMessageStyle
		actorLabel = "Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = entry.Role
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if entry.TimeText != "" {
		header += " " + timestampStyle.Render(entry.TimeText)
	}
	fmt.Println(header)

	content := strings.TrimSpace(entry.Text)
	if content != "" {
		fmt.Println(messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Println(messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	fmt.Println()
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
	transcriptCmd.Flags().IntVarP(&transcriptLimit, "limit", "n", 0, "Maximum entries to show (default 80, max 120)")
	transcriptCmd.Flags().StringVar(&transcriptOrder, "order", "asc", "Entry order: asc or desc")
	transcriptCmd.Flags().BoolVar(&transcriptIncludeEmpty, "include-empty", false, "Include entries whose text is empty")
	transcriptCmd.Flags().BoolVar(&transcriptJSON, "json", false, "Print the raw result envelope as JSON")
}
