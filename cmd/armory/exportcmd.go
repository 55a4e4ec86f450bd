package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"armory/internal/export"
	"armory/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the weapon inventory as CSV",
	Long: `Export a flattened CSV projection of the inventory.

The programs column joins the names of approved links with semicolons;
the reserve column holds an X when any approved link is a reserve
registration.

Examples:
  armory export
  armory export --out weapons.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store := mustGetStore()

	weapons, err := store.weapons.List(storage.WeaponFilter{})
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, weapons); err != nil {
		return err
	}

	if exportOut != "" {
		fmt.Printf("Exported %d weapons to %s\n", len(weapons), exportOut)
	}
	return nil
}
