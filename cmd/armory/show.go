package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <weapon-id>",
	Short: "Show a single weapon with its program links",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store := mustGetStore()

	weapon, err := store.weapons.GetByID(args[0])
	if err != nil {
		return err
	}
	if weapon == nil {
		fmt.Printf("No weapon with id %q.\n", args[0])
		return nil
	}

	if showJSON {
		return json.NewEncoder(os.Stdout).Encode(weapon)
	}

	fmt.Printf("%s (%s)\n", weapon.DisplayName, weapon.ID)
	fmt.Printf("  Type:          %s\n", weapon.Type)
	fmt.Printf("  Manufacturer:  %s\n", formatNullable(weapon.Manufacturer))
	fmt.Printf("  Model:         %s\n", formatNullable(weapon.Model))
	fmt.Printf("  Serial:        %s\n", formatNullable(weapon.SerialNumber))
	fmt.Printf("  Caliber:       %s\n", formatNullable(weapon.Caliber))
	fmt.Printf("  Mode:          %s\n", formatNullable(weapon.OperationMode))
	fmt.Printf("  Acquired:      %s\n", formatNullable(weapon.AcquisitionDate))
	if weapon.AcquisitionPrice != nil {
		fmt.Printf("  Price:         %.2f\n", *weapon.AcquisitionPrice)
	}
	fmt.Printf("  Card ref:      %s\n", formatNullable(weapon.WeaponCardRef))
	fmt.Printf("  Notes:         %s\n", formatNullable(weapon.Notes))
	fmt.Printf("  Ownership:     %s\n", weapon.OwnershipStatus)
	if weapon.OwnershipStatus != "own" {
		fmt.Printf("  Loan contact:  %s\n", formatNullable(weapon.LoanContactName))
		fmt.Printf("  Loan period:   %s - %s\n",
			formatNullable(weapon.LoanStartDate), formatNullable(weapon.LoanEndDate))
	}

	if len(weapon.Programs) == 0 {
		fmt.Println("  Programs:      none")
		return nil
	}
	fmt.Println("  Programs:")
	for _, link := range weapon.Programs {
		marker := ""
		if link.IsReserve {
			marker = " [reserve]"
		}
		fmt.Printf("    %s (%s)  %s%s\n", link.ProgramName, link.ProgramID, link.Status, marker)
	}

	return nil
}
