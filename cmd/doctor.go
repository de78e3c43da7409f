package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/ocxtools/opencode-recall/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Underline(true)
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check if opencode-recall can locate and read the database",
	Long: `Check the health of opencode-recall by verifying:
  - Database path resolution (flag, environment, opencode CLI, default)
  - Read-only access to the database
  - Table row counts

This command is useful for debugging why search returns nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("opencode-recall Doctor"))
		fmt.Println()

		// Step 1: Path resolution
		fmt.Println(infoStyle.Render("Step 1: Resolving database path..."))
		if dbPath != "" {
			fmt.Println(successStyle.Render("--db flag set:"), dbPath)
		} else if env := os.Getenv(internal.EnvDBPath); env != "" {
			fmt.Println(successStyle.Render(internal.EnvDBPath+" set:"), env)
		} else if _, err := exec.LookPath("opencode"); err == nil {
			fmt.Println(successStyle.Render("opencode CLI found, asking it for the path"))
		} else {
			fmt.Println(warningStyle.Render("No override and no opencode CLI; using the default install path"))
		}
		path := databasePath()
		fmt.Printf("   Resolved: %s\n", path)
		fmt.Println()

		// Step 2: Open read-only
		fmt.Println(infoStyle.Render("Step 2: Opening database read-only..."))
		db, err := internal.OpenReadOnly(path)
		if err != nil {
			fmt.Println(errorStyle.Render("Failed to open database:"), err)
			fmt.Println()
			fmt.Println("This usually means opencode has not created any history yet,")
			fmt.Println("or the path above is wrong. Set " + internal.EnvDBPath + " or --db to fix it.")
			return fmt.Errorf("doctor failed: database not readable")
		}
		defer func() { _ = db.Close() }()
		fmt.Println(successStyle.Render("Database opened"))
		fmt.Println()

		// Step 3: Row counts
		fmt.Println(infoStyle.Render("Step 3: Counting rows..."))
		healthy := true
		for _, table := range []string{"session", "project", "message", "part"} {
			var n int
			if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("Table %s unreadable:", table)), err)
				healthy = false
				continue
			}
			fmt.Printf("   %-8s %d row(s)\n", table, n)
		}
		fmt.Println()

		if !healthy {
			fmt.Println(errorStyle.Render("Doctor found problems"))
			return fmt.Errorf("doctor failed: schema not readable")
		}
		fmt.Println(successStyle.Render("All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
