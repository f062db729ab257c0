package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Grant or revoke admin rights",
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := userService().SetAdmin(cmd.Context(), args[0], true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to admin\n", args[0])
		return nil
	},
}

var usersDemoteCmd = &cobra.Command{
	Use:   "demote <username>",
	Short: "Revoke admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := userService().SetAdmin(cmd.Context(), args[0], false); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "demoted %s\n", args[0])
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersPromoteCmd, usersDemoteCmd)
}
