package mirror

import (
	"context"

	"github.com/gitscope/gitscope/pkg/store"
)

// KeySource enumerates the commit keys of every stored commit.
type KeySource interface {
	CommitKeys(ctx context.Context) ([]store.CommitKey, error)
}

// ExistenceIndex answers whether a commit is already mirrored. It loads a
// full snapshot of the stored commit keys on first use and never refreshes
// it; commits staged during the run it serves are intentionally invisible,
// since the remote listing contains no duplicates within one run.
type ExistenceIndex struct {
	source KeySource
	loaded bool
	keys   map[int64]map[string]struct{}
}

// NewExistenceIndex returns an index backed by the given key source.
func NewExistenceIndex(source KeySource) *ExistenceIndex {
	return &ExistenceIndex{source: source}
}

// Exists reports whether the commit is already stored for the repository.
func (i *ExistenceIndex) Exists(ctx context.Context, repoID int64, sha string) (bool, error) {
	if !i.loaded {
		if err := i.load(ctx); err != nil {
			return false, err
		}
	}

	_, ok := i.keys[repoID][sha]
	return ok, nil
}

func (i *ExistenceIndex) load(ctx context.Context) error {
	keys, err := i.source.CommitKeys(ctx)
	if err != nil {
		return err
	}

	i.keys = make(map[int64]map[string]struct{})
	for _, key := range keys {
		shas, ok := i.keys[key.RepoID]
		if !ok {
			shas = make(map[string]struct{})
			i.keys[key.RepoID] = shas
		}
		shas[key.SHA] = struct{}{}
	}

	i.loaded = true
	return nil
}
