package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	memberLeave bool
	memberAll   bool
)

var memberCmd = &cobra.Command{
	Use:   "member [org-id]",
	Short: "Toggle organization membership",
	Long: `Mark an organization as one you are a member of, or leave it.

Membership is a user-owned flag: reference-data synchronization never
resets it, and toggling it touches no weapon or program rows.

Examples:
  armory member nsf            # join NSF
  armory member nsf --leave    # leave NSF
  armory member --all          # join everything
  armory member --all --leave  # leave everything`,
	RunE: runMember,
}

func init() {
	memberCmd.Flags().BoolVar(&memberLeave, "leave", false, "Clear the membership flag instead of setting it")
	memberCmd.Flags().BoolVar(&memberAll, "all", false, "Apply to every organization")
	rootCmd.AddCommand(memberCmd)
}

func runMember(cmd *cobra.Command, args []string) error {
	store := mustGetStore()
	isMember := !memberLeave

	if memberAll {
		if len(args) != 0 {
			return fmt.Errorf("--all takes no organization id")
		}
		if err := store.orgs.SetAllMemberships(isMember); err != nil {
			return err
		}
		fmt.Println("Updated all memberships.")
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("expected an organization id (or --all)")
	}

	if err := store.orgs.SetMembership(args[0], isMember); err != nil {
		return err
	}
	fmt.Printf("Updated membership for %s\n", args[0])
	return nil
}
