package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/ocxtools/opencode-recall/internal"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts and role breakdown for the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := databasePath()

		db, err := internal.OpenReadOnly(path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		fmt.Println(headerStyle.Render("Store statistics"))
		fmt.Println(dateStyle.Render(path))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Table")+"\t"+titleStyle.Render("Rows")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 40))

		for _, table := range []string{"session", "project", "message", "part"} {
			var n int
			if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
				return fmt.Errorf("failed to count %s rows: %w", table, err)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", table, countStyle.Render(strconv.Itoa(n)))
		}
		_ = w.Flush()
		fmt.Println()

		// Role breakdown across messages.
		rows, err := db.Query(`SELECT COALESCE(json_extract(data, '$.role'), '(none)') AS role, COUNT(*)
			FROM message GROUP BY role ORDER BY COUNT(*) DESC`)
		if err != nil {
			return fmt.Errorf("failed to query role breakdown: %w", err)
		}
		defer func() { _ = rows.Close() }()

		fmt.Println(titleStyle.Render("Messages by role"))
		for rows.Next() {
			var role string
			var n int
			if err := rows.Scan(&role, &n); err != nil {
				return fmt.Errorf("failed to scan role row: %w", err)
			}
			fmt.Printf("   %-12s %s\n", role, countStyle.Render(strconv.Itoa(n)))
		}
		return rows.Err()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
