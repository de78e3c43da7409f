package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/ocxtools/opencode-recall/internal"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 2)
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search past sessions by keyword",
	Long: `Search chat history for sessions whose messages contain every given
keyword. Results are ranked by match count, then recency, and include
short snippets of the matching messages.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		result, err := internal.Search(databasePath(), query, searchLimit)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.Error != nil {
			return fmt.Errorf("%s: %s", result.Error.Code, result.Error.Message)
		}

		displaySearchResult(result)
		return nil
	},
}

func displaySearchResult(result *internal.SearchResult) {
	if len(result.Sessions) == 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("No sessions matched %q", result.Query)))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d session(s) matching %q", len(result.Sessions), result.Query))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Matches")+"\t"+titleStyle.Render("Last Match")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, session := range result.Sessions {
		title := session.Title
		if title == "" {
			title = session.Directory
		}
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}

		shortID := session.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID),
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title),
			countStyle.Render(strconv.Itoa(session.MatchCount)),
			dateStyle.Render(session.LastMatch))
	}

	_ = w.Flush()
	fmt.Println()

	for _, session := range result.Sessions {
		for _, snippet := range session.Snippets {
			fmt.Println(snippetStyle.Render(fmt.Sprintf("[%s] %s: %s",
				shortSessionID(session.ID), snippet.Role, snippet.Text)))
		}
	}

	fmt.Println()
	fmt.Println(idStyle.Render("Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(result.Sessions[0].ID) +
		idStyle.Render(") with `opencode-recall transcript <id>`"))
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum sessions to return (default 6, max 12)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the raw result envelope as JSON")
}
