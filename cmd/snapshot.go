package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flagscope/flagscope/internal/utils"
	"github.com/flagscope/flagscope/pkg/storage"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the current flag inventory in the database and show changes",
	Long: `Fetches the flag inventory like the report command, upserts it into the
local SQLite database and prints what changed since the previous snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newFMEClient(cmd)

		workspaces, _, err := client.FetchInventory()
		if err != nil {
			return err
		}

		dbPath, _ := cmd.Flags().GetString("dbpath")
		absPath, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return err
		}

		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(absPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		total := 0
		for _, wf := range workspaces {
			if wf.Workspace.ID == "" {
				continue
			}
			entries := make([]storage.Entry, 0, len(wf.Flags))
			for _, f := range wf.Flags {
				entries = append(entries, storage.Entry{
					WorkspaceID:   wf.Workspace.ID,
					WorkspaceName: wf.Workspace.Name,
					FlagName:      f.Name,
					Status:        f.Status,
					Owner:         f.Owner,
					Description:   f.Description,
					Tags:          strings.Join(f.Tags, ", "),
					Created:       f.Created,
				})
			}
			changes, err := db.UpsertWorkspaceEntries(ctx, wf.Workspace.ID, wf.Workspace.Name, entries)
			if err != nil {
				return err
			}
			for _, c := range changes {
				fmt.Printf("%-7s  %s  %s  %s\n", c.ChangeType, c.WorkspaceName, c.FlagName, c.Detail)
			}
			total += len(changes)
		}

		if total == 0 {
			fmt.Println("No changes since the last snapshot.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringP("token", "t", "", "FME API token (overrides config and HARNESS_API_TOKEN)")
	snapshotCmd.Flags().StringP("account", "a", "", "Harness account identifier (overrides config and HARNESS_ACCOUNT_ID)")
	snapshotCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/flagscope/flagscope.sqlite)")
}
