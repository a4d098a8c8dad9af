package store

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
)

// CommitKey identifies a stored commit and its sort order within its
// repository's latest observed listing.
type CommitKey struct {
	RepoID    int64  `db:"repo_id"`
	SHA       string `db:"sha"`
	SortOrder int64  `db:"sort_order"`
}

// CommitStore is an interface for managing mirrored commits.
type CommitStore interface {
	// CreateCommits inserts the given commit aggregates with their files.
	CreateCommits(ctx context.Context, h db.Handler, commits []models.CommitWithFiles) error

	// GetAllCommitKeys returns the (repo, sha, sort order) triples of every
	// stored commit.
	GetAllCommitKeys(ctx context.Context, h db.Handler) ([]CommitKey, error)

	GetCommitBySHA(ctx context.Context, h db.Handler, repoID int64, sha string) (models.Commit, error)
	// GetCommitsByRepoID returns the repository's commits ordered by sort order.
	GetCommitsByRepoID(ctx context.Context, h db.Handler, repoID int64) ([]models.Commit, error)
	GetCommitFilesByCommitID(ctx context.Context, h db.Handler, commitID int64) ([]models.CommitFile, error)
	CountCommitsByRepoID(ctx context.Context, h db.Handler, repoID int64) (int64, error)

	// PruneCommits deletes the repository's commits whose sha does not appear
	// in observed. It returns the number of deleted commits.
	PruneCommits(ctx context.Context, h db.Handler, repoID int64, observed []string) (int64, error)

	// ReorderCommits sets each commit's sort order to the 0-based position of
	// its sha within observed.
	ReorderCommits(ctx context.Context, h db.Handler, repoID int64, observed []string) error
}
