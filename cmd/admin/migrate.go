package main

import (
	"fmt"
	"sort"

	"yatube/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, revert or inspect SQL migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := database.NewMigrator(db)
		if err != nil {
			return err
		}
		n, err := m.Up(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := database.NewMigrator(db)
		if err != nil {
			return err
		}
		reverted, err := m.Down(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		if !reverted {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reverted 1 migration")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := database.NewMigrator(db)
		if err != nil {
			return err
		}
		status, err := m.Status(cmd.Context())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(status))
		for name := range status {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			state := "pending"
			if status[name] {
				state = "applied"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", state, name)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
