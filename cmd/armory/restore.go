package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-name]",
	Short: "Restore the database from a backup",
	Long: `Replace the live database file with a backup artifact.

Without an argument the most recent backup is restored. The connection is
closed before the swap and reopened afterwards, and a RESTORED event is
published so read models reload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		if err := store.backups.Restore(name); err != nil {
			return err
		}

		// The restored store may carry different reference data state.
		store.seeder.Reset()
		if err := store.seeder.Ensure(); err != nil {
			return err
		}

		fmt.Println("Restore complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
