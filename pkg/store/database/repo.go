package database

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/store"
)

type repoStore struct{}

var _ store.RepositoryStore = (*repoStore)(nil)

// CreateRepo implements store.RepositoryStore.
func (*repoStore) CreateRepo(ctx context.Context, h db.Handler, name string, projectName string, description string) error {
	query := h.Rebind(`INSERT INTO repos (name, project_name, description, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP);`)
	_, err := h.ExecContext(ctx, query, name, projectName, description)
	return db.WrapError(err)
}

// DeleteRepoByName implements store.RepositoryStore.
func (*repoStore) DeleteRepoByName(ctx context.Context, h db.Handler, name string) error {
	query := h.Rebind("DELETE FROM repos WHERE name = ?;")
	_, err := h.ExecContext(ctx, query, name)
	return db.WrapError(err)
}

// SetRepoNameByName implements store.RepositoryStore.
func (*repoStore) SetRepoNameByName(ctx context.Context, h db.Handler, name string, newName string) error {
	query := h.Rebind("UPDATE repos SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?;")
	_, err := h.ExecContext(ctx, query, newName, name)
	return db.WrapError(err)
}

// GetAllRepos implements store.RepositoryStore.
func (*repoStore) GetAllRepos(ctx context.Context, h db.Handler) ([]models.Repo, error) {
	var repos []models.Repo
	query := h.Rebind("SELECT * FROM repos ORDER BY project_name, name;")
	err := h.SelectContext(ctx, &repos, query)
	return repos, db.WrapError(err)
}

// GetRepoByName implements store.RepositoryStore.
func (*repoStore) GetRepoByName(ctx context.Context, h db.Handler, name string) (models.Repo, error) {
	var repo models.Repo
	query := h.Rebind("SELECT * FROM repos WHERE name = ?;")
	err := h.GetContext(ctx, &repo, query, name)
	return repo, db.WrapError(err)
}

// SetRepoProjectNameByName implements store.RepositoryStore.
func (*repoStore) SetRepoProjectNameByName(ctx context.Context, h db.Handler, name string, projectName string) error {
	query := h.Rebind("UPDATE repos SET project_name = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?;")
	_, err := h.ExecContext(ctx, query, projectName, name)
	return db.WrapError(err)
}

// SetRepoDescriptionByName implements store.RepositoryStore.
func (*repoStore) SetRepoDescriptionByName(ctx context.Context, h db.Handler, name string, description string) error {
	query := h.Rebind("UPDATE repos SET description = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?;")
	_, err := h.ExecContext(ctx, query, description, name)
	return db.WrapError(err)
}
