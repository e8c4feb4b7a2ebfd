package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flagscope/flagscope/internal/utils"
	"github.com/flagscope/flagscope/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the flagscope database",
}

// dbShellCmd represents the shell command
var dbShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().PersistentFlags().GetString("dbpath")
		absPath, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", absPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, absPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, absPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-workspace statistics about the stored flag inventory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Parent().PersistentFlags().GetString("dbpath")
		absPath, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}

		db, err := storage.Open(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("database file not found: %s", absPath)
			}
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "WORKSPACE\tFLAGS\t")

		totalFlags := 0
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t\n", s.WorkspaceName, s.FlagCount)
			totalFlags += s.FlagCount
		}

		fmt.Fprintln(w, " \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t\n", totalFlags)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbShellCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/flagscope/flagscope.sqlite)")
}
