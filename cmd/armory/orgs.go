package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var orgsJSON bool

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List organizations and membership flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := mustGetStore()

		orgs, err := store.orgs.List()
		if err != nil {
			return err
		}

		if orgsJSON {
			return json.NewEncoder(os.Stdout).Encode(orgs)
		}

		for _, org := range orgs {
			member := " "
			if org.IsMember {
				member = "*"
			}
			fmt.Printf("%s %-6s %s\n", member, org.ID, org.Name)
		}
		return nil
	},
}

func init() {
	orgsCmd.Flags().BoolVar(&orgsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(orgsCmd)
}
