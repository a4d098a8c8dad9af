package jobs

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gitscope/gitscope/pkg/backend"
	"github.com/gitscope/gitscope/pkg/config"
	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/gitscope/gitscope/pkg/mirror"
	"github.com/gitscope/gitscope/pkg/task"
)

func init() {
	Register("sync", syncJob{})
}

// syncJob synchronizes remote commit history on the configured schedule.
// Overlapping runs are skipped, not queued.
type syncJob struct{}

func (syncJob) Spec(ctx context.Context) string {
	return config.FromContext(ctx).Jobs.Sync
}

func (syncJob) Func(ctx context.Context) func() {
	logger := log.FromContext(ctx).WithPrefix("jobs.sync")
	be := backend.FromContext(ctx)
	feed := forge.FromContext(ctx)
	manager := task.NewManager(ctx)
	return func() {
		err := manager.Run("sync", func(ctx context.Context) error {
			return mirror.NewSynchronizer(ctx, be, feed).Sync(ctx)
		})
		if errors.Is(err, task.ErrAlreadyRunning) {
			logger.Warn("previous run still active, skipping")
			return
		}
		if err != nil {
			logger.Error("synchronization failed", "err", err)
		}
	}
}
