package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"armory/internal/storage"
)

var (
	listOrg         string
	listProgram     string
	listReserve     string
	listOwnership   string
	listMembersOnly bool
	listJSON        bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List weapons with their program links",
	Long: `List weapons, each with its aggregated program links.

Filters combine with AND.

Examples:
  armory list
  armory list --org nsf
  armory list --program dfs-bane
  armory list --reserve reserveOnly
  armory list --ownership loanIn
  armory list --members-only --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listOrg, "org", "", "Only weapons linked into this organization")
	listCmd.Flags().StringVar(&listProgram, "program", "", "Only weapons linked to this program")
	listCmd.Flags().StringVar(&listReserve, "reserve", "any", "Reserve filter (any, reserveOnly, nonReserve)")
	listCmd.Flags().StringVar(&listOwnership, "ownership", "all", "Ownership filter (all, own, loanIn, loanOut)")
	listCmd.Flags().BoolVar(&listMembersOnly, "members-only", false, "Only show links into organizations you are a member of")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store := mustGetStore()

	filter, err := buildWeaponFilter(store)
	if err != nil {
		return err
	}

	weapons, err := store.weapons.List(filter)
	if err != nil {
		return err
	}

	if listJSON {
		return json.NewEncoder(os.Stdout).Encode(weapons)
	}

	if len(weapons) == 0 {
		fmt.Println("No weapons found.")
		return nil
	}

	for _, weapon := range weapons {
		fmt.Printf("%s  %s (%s)\n", weapon.ID, weapon.DisplayName, weapon.Type)
		for _, link := range weapon.Programs {
			marker := ""
			if link.IsReserve {
				marker = " [reserve]"
			}
			fmt.Printf("    %s  %s%s\n", link.ProgramName, link.Status, marker)
		}
	}

	return nil
}

func buildWeaponFilter(store *appStore) (storage.WeaponFilter, error) {
	filter := storage.WeaponFilter{
		OrganizationID: listOrg,
		ProgramID:      listProgram,
	}

	switch storage.ReserveFilter(listReserve) {
	case storage.ReserveAny, "":
		filter.Reserve = storage.ReserveAny
	case storage.ReserveOnly, storage.NonReserve:
		filter.Reserve = storage.ReserveFilter(listReserve)
	default:
		return filter, fmt.Errorf("invalid --reserve value %q (any, reserveOnly, nonReserve)", listReserve)
	}

	switch listOwnership {
	case "", string(storage.OwnershipAll):
		filter.Ownership = storage.OwnershipAll
	case string(storage.OwnershipOwn), string(storage.OwnershipLoanIn), string(storage.OwnershipLoanOut):
		filter.Ownership = storage.OwnershipFilter(listOwnership)
	default:
		return filter, fmt.Errorf("invalid --ownership value %q (all, own, loanIn, loanOut)", listOwnership)
	}

	if listMembersOnly {
		ids, err := store.orgs.MemberIDs()
		if err != nil {
			return filter, err
		}
		filter.AllowedOrganizationIDs = ids
	}

	return filter, nil
}

// formatNullable renders an optional field for human output
func formatNullable(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
