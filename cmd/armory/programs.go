package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	programsOrg  string
	programsJSON bool
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()

		programs, err := store.programs.List(programsOrg)
		if err != nil {
			return err
		}

		if programsJSON {
			return json.NewEncoder(os.Stdout).Encode(programs)
		}

		for _, program := range programs {
			reserve := ""
			if program.IsReserveAllowed {
				reserve = " (reserve allowed)"
			}
			fmt.Printf("%-26s %-6s %s%s\n", program.ID, program.OrganizationID, program.Name, reserve)
		}
		return nil
	},
}

func init() {
	programsCmd.Flags().StringVar(&programsOrg, "org", "", "Only programs of this organization")
	programsCmd.Flags().BoolVar(&programsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(programsCmd)
}
