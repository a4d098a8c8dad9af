package store

import (
	"context"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
)

// RepositoryStore is an interface for managing mirrored repositories.
type RepositoryStore interface {
	GetRepoByName(ctx context.Context, h db.Handler, name string) (models.Repo, error)
	// GetAllRepos returns all repositories ordered by project name, then name.
	GetAllRepos(ctx context.Context, h db.Handler) ([]models.Repo, error)
	CreateRepo(ctx context.Context, h db.Handler, name string, projectName string, description string) error
	DeleteRepoByName(ctx context.Context, h db.Handler, name string) error
	SetRepoNameByName(ctx context.Context, h db.Handler, name string, newName string) error
	SetRepoProjectNameByName(ctx context.Context, h db.Handler, name string, projectName string) error
	SetRepoDescriptionByName(ctx context.Context, h db.Handler, name string, description string) error
}
