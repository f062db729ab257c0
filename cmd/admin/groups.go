package main

import (
	"fmt"

	"yatube/internal/seed"
	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List, create and delete groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := groupService().ListGroups(cmd.Context())
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-20s %s\n", g.ID, g.Slug, g.Title)
		}
		return nil
	},
}

var groupDescription string

var groupsCreateCmd = &cobra.Command{
	Use:   "create <slug> <title>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := groupService().CreateGroup(cmd.Context(), service.CreateGroupInput{
			Slug:        args[0],
			Title:       args[1],
			Description: groupDescription,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created group %s (ID: %d)\n", g.Slug, g.ID)
		return nil
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group; its posts are kept without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := groupService().DeleteGroup(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
		return nil
	},
}

var groupsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the built-in groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := seed.Groups(db.WithContext(cmd.Context())); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "built-in groups are up to date")
		return nil
	},
}

func init() {
	groupsCreateCmd.Flags().StringVarP(&groupDescription, "description", "d", "", "group description")
	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsDeleteCmd, groupsSeedCmd)
}
