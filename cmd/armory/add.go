package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"armory/internal/storage"
)

var (
	addID          string
	addName        string
	addType        string
	addMaker       string
	addModel       string
	addSerial      string
	addAcquired    string
	addPrice       float64
	addCardRef     string
	addMode        string
	addCaliber     string
	addNotes       string
	addOwnership   string
	addLoanContact string
	addLoanStart   string
	addLoanEnd     string
	addPrograms    []string
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"edit"},
	Short:   "Create or fully replace a weapon",
	Long: `Create a weapon, or fully replace it when --id names an existing one.

The upsert replaces every field: an omitted optional flag clears the
stored value, it does not keep the old one. The submitted program set
replaces all existing links.

Program selections use the form id[:status[:reserve]] where status is
approved, pending, or proposed (default approved). At most one selection
may be the primary approved link; a reserve selection must be approved.

Examples:
  armory add --name "Glock 17" --type pistol --caliber "9mm Luger" \
    --program nsf-pistol-felt-grov
  armory add --id 3f2c... --name "Sauer 200 STR" --type rifle \
    --program dfs-bane:approved --program dfs-felt:approved:reserve`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "Weapon id (generated when omitted)")
	addCmd.Flags().StringVar(&addName, "name", "", "Display name (required)")
	addCmd.Flags().StringVar(&addType, "type", "", "Weapon category, e.g. pistol, rifle, shotgun (required)")
	addCmd.Flags().StringVar(&addMaker, "manufacturer", "", "Manufacturer")
	addCmd.Flags().StringVar(&addModel, "model", "", "Model")
	addCmd.Flags().StringVar(&addSerial, "serial", "", "Serial number")
	addCmd.Flags().StringVar(&addAcquired, "acquired", "", "Acquisition date (YYYY-MM-DD)")
	addCmd.Flags().Float64Var(&addPrice, "price", 0, "Acquisition price")
	addCmd.Flags().StringVar(&addCardRef, "card", "", "Weapon card reference")
	addCmd.Flags().StringVar(&addMode, "mode", "", "Operation mode, e.g. semi-auto, bolt-action")
	addCmd.Flags().StringVar(&addCaliber, "caliber", "", "Caliber")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringVar(&addOwnership, "ownership", "own", "Ownership status (own, loanIn, loanOut)")
	addCmd.Flags().StringVar(&addLoanContact, "loan-contact", "", "Loan counterparty name")
	addCmd.Flags().StringVar(&addLoanStart, "loan-start", "", "Loan start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addLoanEnd, "loan-end", "", "Loan end date (YYYY-MM-DD)")
	addCmd.Flags().StringArrayVar(&addPrograms, "program", nil, "Program selection id[:status[:reserve]] (repeatable)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(addName) == "" {
		return fmt.Errorf("--name is required")
	}
	if strings.TrimSpace(addType) == "" {
		return fmt.Errorf("--type is required")
	}

	switch storage.OwnershipStatus(addOwnership) {
	case storage.OwnershipOwn, storage.OwnershipLoanIn, storage.OwnershipLoanOut:
	default:
		return fmt.Errorf("invalid --ownership value %q (own, loanIn, loanOut)", addOwnership)
	}

	selections, err := parseProgramSelections(addPrograms)
	if err != nil {
		return err
	}

	id := addID
	if id == "" {
		id = uuid.New().String()
	}

	input := storage.WeaponInput{
		ID:              id,
		DisplayName:     addName,
		Type:            addType,
		Manufacturer:    optional(addMaker),
		Model:           optional(addModel),
		SerialNumber:    optional(addSerial),
		AcquisitionDate: optional(addAcquired),
		WeaponCardRef:   optional(addCardRef),
		OperationMode:   optional(addMode),
		Caliber:         optional(addCaliber),
		Notes:           optional(addNotes),
		OwnershipStatus: storage.OwnershipStatus(addOwnership),
		LoanContactName: optional(addLoanContact),
		LoanStartDate:   optional(addLoanStart),
		LoanEndDate:     optional(addLoanEnd),
		Programs:        selections,
	}
	if cmd.Flags().Changed("price") {
		price := addPrice
		input.AcquisitionPrice = &price
	}

	store := mustGetStore()
	if err := store.weapons.Upsert(input); err != nil {
		return err
	}

	fmt.Printf("Saved weapon %s\n", id)
	return nil
}

// parseProgramSelections parses id[:status[:reserve]] selection specs
func parseProgramSelections(specs []string) ([]storage.ProgramSelection, error) {
	selections := make([]storage.ProgramSelection, 0, len(specs))

	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if parts[0] == "" {
			return nil, fmt.Errorf("invalid program selection %q", spec)
		}

		sel := storage.ProgramSelection{ProgramID: parts[0], Status: storage.StatusApproved}
		if len(parts) > 1 && parts[1] != "" {
			switch storage.LinkStatus(parts[1]) {
			case storage.StatusApproved, storage.StatusPending, storage.StatusProposed:
				sel.Status = storage.LinkStatus(parts[1])
			default:
				return nil, fmt.Errorf("invalid status %q in program selection %q", parts[1], spec)
			}
		}
		if len(parts) > 2 {
			switch parts[2] {
			case "reserve":
				sel.IsReserve = true
			case "":
			default:
				return nil, fmt.Errorf("invalid reserve marker %q in program selection %q", parts[2], spec)
			}
		}

		selections = append(selections, sel)
	}

	return selections, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
