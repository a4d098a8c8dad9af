package backend

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/store"
)

// Stage buffers a commit aggregate for the next Flush. It never writes to
// the database. Staging is not safe for concurrent use; synchronization runs
// are strictly sequential and hold run exclusivity.
func (b *Backend) Stage(commit models.CommitWithFiles) {
	b.staged = append(b.staged, commit)
}

// Flush durably persists all staged commit aggregates in one transaction and
// clears the buffer. Flushing an empty buffer is a no-op.
func (b *Backend) Flush(ctx context.Context) error {
	if len(b.staged) == 0 {
		return nil
	}

	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.CreateCommits(ctx, tx, b.staged)
	}); err != nil {
		return err
	}

	b.logger.Debug("flushed commits", "count", len(b.staged))
	b.staged = b.staged[:0]
	return nil
}

// CommitKeys returns the (repo, sha, sort order) triples of every stored
// commit. It backs the synchronizer's existence snapshot.
func (b *Backend) CommitKeys(ctx context.Context) ([]store.CommitKey, error) {
	return b.store.GetAllCommitKeys(ctx, b.db)
}

// PruneCommits deletes the repository's commits absent from observed and
// returns the number deleted.
func (b *Backend) PruneCommits(ctx context.Context, repo models.Repo, observed []string) (int64, error) {
	var pruned int64
	err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		pruned, err = b.store.PruneCommits(ctx, tx, repo.ID, observed)
		return err
	})
	return pruned, err
}

// ReorderCommits rewrites the repository's sort order to match observed.
func (b *Backend) ReorderCommits(ctx context.Context, repo models.Repo, observed []string) error {
	return b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.ReorderCommits(ctx, tx, repo.ID, observed)
	})
}

// Commits returns the repository's commits in their mirrored order.
func (b *Backend) Commits(ctx context.Context, name string) ([]models.Commit, error) {
	repo, err := b.Repository(ctx, name)
	if err != nil {
		return nil, err
	}

	return b.store.GetCommitsByRepoID(ctx, b.db, repo.ID)
}

// CommitFiles returns the files changed by the given commit.
func (b *Backend) CommitFiles(ctx context.Context, commitID int64) ([]models.CommitFile, error) {
	return b.store.GetCommitFilesByCommitID(ctx, b.db, commitID)
}

// CountCommits returns the number of mirrored commits for the repository.
func (b *Backend) CountCommits(ctx context.Context, name string) (int64, error) {
	repo, err := b.Repository(ctx, name)
	if err != nil {
		return 0, err
	}

	return b.store.CountCommitsByRepoID(ctx, b.db, repo.ID)
}

// LatestCommit returns the repository's newest mirrored commit.
func (b *Backend) LatestCommit(ctx context.Context, name string) (models.Commit, error) {
	repo, err := b.Repository(ctx, name)
	if err != nil {
		return models.Commit{}, err
	}

	commits, err := b.store.GetCommitsByRepoID(ctx, b.db, repo.ID)
	if err != nil {
		return models.Commit{}, err
	}
	if len(commits) == 0 {
		return models.Commit{}, db.ErrRecordNotFound
	}

	return commits[0], nil
}
