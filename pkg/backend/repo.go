package backend

import (
	"context"
	"errors"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gobwas/glob"
)

// Repositories returns all repositories ordered by project name, then name.
// Repositories matching a sync.exclude glob pattern are skipped.
func (b *Backend) Repositories(ctx context.Context) ([]models.Repo, error) {
	repos, err := b.store.GetAllRepos(ctx, b.db)
	if err != nil {
		return nil, err
	}

	if len(b.cfg.Sync.Exclude) == 0 {
		return repos, nil
	}

	globs := make([]glob.Glob, 0, len(b.cfg.Sync.Exclude))
	for _, pattern := range b.cfg.Sync.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			b.logger.Warn("invalid exclude pattern", "pattern", pattern, "err", err)
			continue
		}
		globs = append(globs, g)
	}

	kept := repos[:0]
	for _, repo := range repos {
		excluded := false
		for _, g := range globs {
			if g.Match(repo.Name) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, repo)
		}
	}

	return kept, nil
}

// Repository returns the repository with the given name.
func (b *Backend) Repository(ctx context.Context, name string) (models.Repo, error) {
	repo, err := b.store.GetRepoByName(ctx, b.db, name)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return models.Repo{}, ErrRepoNotFound
		}
		return models.Repo{}, err
	}

	return repo, nil
}

// CreateRepository registers a new repository to mirror.
func (b *Backend) CreateRepository(ctx context.Context, name string, projectName string, description string) (models.Repo, error) {
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.CreateRepo(ctx, tx, name, projectName, description)
	}); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return models.Repo{}, ErrRepoExist
		}
		return models.Repo{}, err
	}

	b.logger.Info("created repository", "repo", name)
	return b.Repository(ctx, name)
}

// DeleteRepository removes a repository and all of its mirrored commits.
func (b *Backend) DeleteRepository(ctx context.Context, name string) error {
	if _, err := b.Repository(ctx, name); err != nil {
		return err
	}

	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.DeleteRepoByName(ctx, tx, name)
	}); err != nil {
		return err
	}

	b.logger.Info("deleted repository", "repo", name)
	return nil
}

// RenameRepository renames a repository.
func (b *Backend) RenameRepository(ctx context.Context, oldName string, newName string) error {
	if _, err := b.Repository(ctx, oldName); err != nil {
		return err
	}
	if _, err := b.Repository(ctx, newName); err == nil {
		return ErrRepoExist
	}

	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetRepoNameByName(ctx, tx, oldName, newName)
	}); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return ErrRepoExist
		}
		return err
	}

	b.logger.Info("renamed repository", "repo", oldName, "new", newName)
	return nil
}

// SetRepositoryProjectName sets the repository's project name.
func (b *Backend) SetRepositoryProjectName(ctx context.Context, name string, projectName string) error {
	if _, err := b.Repository(ctx, name); err != nil {
		return err
	}

	return b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetRepoProjectNameByName(ctx, tx, name, projectName)
	})
}

// SetRepositoryDescription sets the repository's description.
func (b *Backend) SetRepositoryDescription(ctx context.Context, name string, description string) error {
	if _, err := b.Repository(ctx, name); err != nil {
		return err
	}

	return b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetRepoDescriptionByName(ctx, tx, name, description)
	})
}
