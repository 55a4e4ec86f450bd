package main

import (
	"github.com/spf13/cobra"

	"armory/internal/version"
)

var (
	// dataDirFlag is the CLI --data-dir flag value
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "armory",
	Short: "armory - firearm inventory for sport shooters",
	Long: `armory keeps a local inventory of firearms, organization memberships,
and program approvals for sport shooters. Everything is stored in a single
embedded database file inside the data directory (default ~/.armory,
overridable with --data-dir or the ARMORY_HOME environment variable).`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("armory version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"Data directory (default: $ARMORY_HOME or ~/.armory)")
}
