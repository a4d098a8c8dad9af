// Package database provides the sqlx implementation of the GitScope stores.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/gitscope/gitscope/pkg/config"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/store"
)

type datastore struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	logger *log.Logger

	*repoStore
	*userStore
	*commitStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		logger: logger,

		repoStore:   &repoStore{},
		userStore:   &userStore{},
		commitStore: &commitStore{},
	}

	return s
}
