package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCompress bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of the database file",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a timestamped backup of the database file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()

		compress := backupCompress || store.cfg.Backup.Compress
		path, err := store.backups.Create(compress)
		if err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()

		backups, err := store.backups.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		for _, b := range backups {
			fmt.Printf("%s  %8d bytes  %s\n", b.Name, b.Size, b.ModTime.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	backupCreateCmd.Flags().BoolVar(&backupCompress, "compress", false, "Write a gzip-compressed artifact")
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	rootCmd.AddCommand(backupCmd)
}
