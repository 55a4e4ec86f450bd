package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"armory/internal/storage"
)

var (
	usageOrg         string
	usageMembersOnly bool
	usageJSON        bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show per-program approval counts",
	Long: `Show, per program, how many weapons hold an approved link and how
many of those are reserve registrations. Pending and proposed links do
not count.`,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().StringVar(&usageOrg, "org", "", "Only programs of this organization")
	usageCmd.Flags().BoolVar(&usageMembersOnly, "members-only", false, "Only programs of organizations you are a member of")
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	store := mustGetStore()

	filter := storage.UsageFilter{OrganizationID: usageOrg}
	if usageMembersOnly {
		ids, err := store.orgs.MemberIDs()
		if err != nil {
			return err
		}
		filter.AllowedOrganizationIDs = ids
	}

	usage, err := store.programs.Usage(filter)
	if err != nil {
		return err
	}

	if usageJSON {
		return json.NewEncoder(os.Stdout).Encode(usage)
	}

	for _, u := range usage {
		fmt.Printf("%-30s weapons=%d reserve=%d\n", u.ProgramName, u.WeaponCount, u.ReserveCount)
	}
	return nil
}
