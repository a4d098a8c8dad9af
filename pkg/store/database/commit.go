package database

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/store"
	"github.com/jmoiron/sqlx"
)

type commitStore struct{}

var _ store.CommitStore = (*commitStore)(nil)

// CreateCommits implements store.CommitStore.
func (*commitStore) CreateCommits(ctx context.Context, h db.Handler, commits []models.CommitWithFiles) error {
	commitQuery := h.Rebind(`INSERT INTO commits (
			repo_id, sha, author_id, author_name, authored_at,
			committer_id, committer_name, committed_at, message,
			additions, deletions, total, sort_order, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			RETURNING id;`)
	fileQuery := h.Rebind(`INSERT INTO commit_files (
			commit_id, filename, status, additions, deletions, changes)
			VALUES (?, ?, ?, ?, ?, ?);`)

	for _, cwf := range commits {
		c := cwf.Commit
		var id int64
		if err := h.GetContext(ctx, &id, commitQuery,
			c.RepoID, c.SHA, c.AuthorID, c.AuthorName, c.AuthoredAt,
			c.CommitterID, c.CommitterName, c.CommittedAt, c.Message,
			c.Additions, c.Deletions, c.Total, c.SortOrder,
		); err != nil {
			return db.WrapError(err)
		}

		for _, f := range cwf.Files {
			if _, err := h.ExecContext(ctx, fileQuery,
				id, f.Filename, f.Status, f.Additions, f.Deletions, f.Changes,
			); err != nil {
				return db.WrapError(err)
			}
		}
	}

	return nil
}

// GetAllCommitKeys implements store.CommitStore.
func (*commitStore) GetAllCommitKeys(ctx context.Context, h db.Handler) ([]store.CommitKey, error) {
	var keys []store.CommitKey
	query := h.Rebind("SELECT repo_id, sha, sort_order FROM commits;")
	err := h.SelectContext(ctx, &keys, query)
	return keys, db.WrapError(err)
}

// GetCommitBySHA implements store.CommitStore.
func (*commitStore) GetCommitBySHA(ctx context.Context, h db.Handler, repoID int64, sha string) (models.Commit, error) {
	var commit models.Commit
	query := h.Rebind("SELECT * FROM commits WHERE repo_id = ? AND sha = ?;")
	err := h.GetContext(ctx, &commit, query, repoID, sha)
	return commit, db.WrapError(err)
}

// GetCommitsByRepoID implements store.CommitStore.
func (*commitStore) GetCommitsByRepoID(ctx context.Context, h db.Handler, repoID int64) ([]models.Commit, error) {
	var commits []models.Commit
	query := h.Rebind("SELECT * FROM commits WHERE repo_id = ? ORDER BY sort_order;")
	err := h.SelectContext(ctx, &commits, query, repoID)
	return commits, db.WrapError(err)
}

// GetCommitFilesByCommitID implements store.CommitStore.
func (*commitStore) GetCommitFilesByCommitID(ctx context.Context, h db.Handler, commitID int64) ([]models.CommitFile, error) {
	var files []models.CommitFile
	query := h.Rebind("SELECT * FROM commit_files WHERE commit_id = ? ORDER BY filename;")
	err := h.SelectContext(ctx, &files, query, commitID)
	return files, db.WrapError(err)
}

// CountCommitsByRepoID implements store.CommitStore.
func (*commitStore) CountCommitsByRepoID(ctx context.Context, h db.Handler, repoID int64) (int64, error) {
	var count int64
	query := h.Rebind("SELECT COUNT(*) FROM commits WHERE repo_id = ?;")
	err := h.GetContext(ctx, &count, query, repoID)
	return count, db.WrapError(err)
}

// PruneCommits implements store.CommitStore.
func (*commitStore) PruneCommits(ctx context.Context, h db.Handler, repoID int64, observed []string) (int64, error) {
	if len(observed) == 0 {
		query := h.Rebind("DELETE FROM commits WHERE repo_id = ?;")
		res, err := h.ExecContext(ctx, query, repoID)
		if err != nil {
			return 0, db.WrapError(err)
		}
		n, err := res.RowsAffected()
		return n, db.WrapError(err)
	}

	query, args, err := sqlx.In("DELETE FROM commits WHERE repo_id = ? AND sha NOT IN (?);", repoID, observed)
	if err != nil {
		return 0, db.WrapError(err)
	}

	res, err := h.ExecContext(ctx, h.Rebind(query), args...)
	if err != nil {
		return 0, db.WrapError(err)
	}

	n, err := res.RowsAffected()
	return n, db.WrapError(err)
}

// ReorderCommits implements store.CommitStore.
func (*commitStore) ReorderCommits(ctx context.Context, h db.Handler, repoID int64, observed []string) error {
	query := h.Rebind("UPDATE commits SET sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE repo_id = ? AND sha = ?;")
	for i, sha := range observed {
		if _, err := h.ExecContext(ctx, query, i, repoID, sha); err != nil {
			return db.WrapError(err)
		}
	}

	return nil
}
