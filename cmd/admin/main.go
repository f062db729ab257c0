// Command admin runs schema migrations and moderation chores against the yatube database.
package main

import (
	"fmt"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// db is opened once in the root PersistentPreRunE.
var db *gorm.DB

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Yatube administration tool",
	Long: `Administration commands for the yatube database.

Available subcommands:
  migrate - Apply, revert or inspect SQL migrations
  groups  - List, create and delete groups
  users   - Grant or revoke admin rights`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err = database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, groupsCmd, usersCmd)
}

func groupService() *service.GroupService {
	return service.NewGroupService(repository.NewGroupRepository(db))
}

func userService() *service.UserService {
	return service.NewUserService(repository.NewUserRepository(db))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
