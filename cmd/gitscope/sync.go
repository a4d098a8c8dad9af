package main

import (
	"context"
	"fmt"

	"github.com/caarlos0/duration"
	"github.com/gitscope/gitscope/cmd"
	"github.com/gitscope/gitscope/pkg/backend"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/migrate"
	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/gitscope/gitscope/pkg/mirror"
	"github.com/gitscope/gitscope/pkg/task"
	"github.com/spf13/cobra"
)

var syncTimeout string

var syncCmd = &cobra.Command{
	Use:                "sync [REPOSITORY]",
	Short:              "Synchronize commit history now",
	Args:               cobra.MaximumNArgs(1),
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := c.Context()

		dbx := db.FromContext(ctx)
		if err := migrate.Migrate(ctx, dbx); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}

		if syncTimeout != "" {
			d, err := duration.Parse(syncTimeout)
			if err != nil {
				return fmt.Errorf("parse timeout: %w", err)
			}

			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		be := backend.FromContext(ctx)
		feed := forge.FromContext(ctx)
		manager := task.NewManager(ctx)

		return manager.Run("sync", func(ctx context.Context) error {
			sync := mirror.NewSynchronizer(ctx, be, feed)
			if len(args) == 0 {
				return sync.Sync(ctx)
			}

			repo, err := be.Repository(ctx, args[0])
			if err != nil {
				return err
			}

			return sync.SyncRepository(ctx, mirror.NewExistenceIndex(be), repo)
		})
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncTimeout, "timeout", "", "abort the run after this duration (e.g. 30m, 1h30m)")
}
