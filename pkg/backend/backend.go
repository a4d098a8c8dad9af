// Package backend provides the GitScope backend: repository, user, and
// commit management on top of the datastore.
package backend

import (
	"context"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/gitscope/gitscope/pkg/config"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/store"
)

// userCacheSize bounds the resolved-user cache (remote id to local user id).
const userCacheSize = 1000

// Backend handles repository, user, and commit management and operations.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	logger *log.Logger

	users  *lru.Cache[int64, int64]
	staged []models.CommitWithFiles
}

// New returns a new GitScope backend.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	users, _ := lru.New[int64, int64](userCacheSize)
	return &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
		users:  users,
	}
}
