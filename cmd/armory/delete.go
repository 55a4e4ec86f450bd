package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <weapon-id>",
	Short: "Delete a weapon and all its program links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()
		if err := store.weapons.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted weapon %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
