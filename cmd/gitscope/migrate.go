package main

import (
	"fmt"

	"github.com/gitscope/gitscope/cmd"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/migrate"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:                "up",
	Short:              "Migrate the database to the latest version",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		dbx := db.FromContext(ctx)
		if err := migrate.Migrate(ctx, dbx); err != nil {
			return fmt.Errorf("migration: %w", err)
		}

		return nil
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:                "rollback",
	Short:              "Rollback the database to the previous version",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		dbx := db.FromContext(ctx)
		if err := migrate.Rollback(ctx, dbx); err != nil {
			return fmt.Errorf("rollback: %w", err)
		}

		return nil
	},
}

func init() {
	migrateCmd.AddCommand(
		migrateUpCmd,
		migrateRollbackCmd,
	)
}
