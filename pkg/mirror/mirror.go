// Package mirror implements commit history synchronization: it pages remote
// commit listings, persists unseen commits in bounded batches, prunes commits
// that dropped out of remote history, and reconciles the mirrored order.
package mirror

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/google/uuid"
)

// flushEvery is the batch flush cadence. The counter advances for every
// observed commit, known or not, so flush timing depends on listing
// positions rather than on how many commits were actually new.
const flushEvery = 1000

// RepositorySource lists the repositories to synchronize, in a stable order.
type RepositorySource interface {
	Repositories(ctx context.Context) ([]models.Repo, error)
}

// UserResolver maps a forge identity to a local user id.
type UserResolver interface {
	ResolveUser(ctx context.Context, identity forge.Identity) (int64, error)
}

// CommitStager buffers commit aggregates and persists them on Flush.
// Flush must be safe to call with an empty buffer.
type CommitStager interface {
	Stage(commit models.CommitWithFiles)
	Flush(ctx context.Context) error
}

// CommitPruner deletes a repository's commits absent from observed.
type CommitPruner interface {
	PruneCommits(ctx context.Context, repo models.Repo, observed []string) (int64, error)
}

// CommitReorderer assigns each commit's sort order from its position in
// observed.
type CommitReorderer interface {
	ReorderCommits(ctx context.Context, repo models.Repo, observed []string) error
}

// Datastore is the persistence surface the synchronizer drives.
// *backend.Backend satisfies it.
type Datastore interface {
	RepositorySource
	UserResolver
	CommitStager
	CommitPruner
	CommitReorderer
	KeySource
}

// Synchronizer mirrors remote commit history into the local datastore.
// It is strictly sequential; the caller must guarantee that no two runs
// synchronize the same repository concurrently.
type Synchronizer struct {
	store  Datastore
	feed   forge.Client
	logger *log.Logger
}

// NewSynchronizer returns a new Synchronizer.
func NewSynchronizer(ctx context.Context, store Datastore, feed forge.Client) *Synchronizer {
	return &Synchronizer{
		store:  store,
		feed:   feed,
		logger: log.FromContext(ctx).WithPrefix("mirror"),
	}
}

// Sync synchronizes every repository, in order. The first failure aborts the
// run; repositories later in the order are not attempted.
func (s *Synchronizer) Sync(ctx context.Context) error {
	logger := s.logger.With("run", uuid.New().String())
	runsCounter.Inc()

	repos, err := s.store.Repositories(ctx)
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	// One existence snapshot per run, shared across repositories and loaded
	// on first use.
	index := NewExistenceIndex(s.store)

	for _, repo := range repos {
		if err := s.SyncRepository(ctx, index, repo); err != nil {
			return fmt.Errorf("synchronize %s: %w", repo.Name, err)
		}
	}

	logger.Info("run complete", "repos", len(repos))
	return nil
}

// SyncRepository synchronizes a single repository: it drains the remote
// listing page by page, ingests unknown commits, and, only after the full
// listing succeeded, prunes unreachable commits and rewrites the sort order.
func (s *Synchronizer) SyncRepository(ctx context.Context, index *ExistenceIndex, repo models.Repo) error {
	seq := 0
	observed := []string{}

	pager := s.feed.Commits(ctx, repo.Name)
	for pager.Next() {
		for _, summary := range pager.Page() {
			observed = append(observed, summary.SHA)

			known, err := index.Exists(ctx, repo.ID, summary.SHA)
			if err != nil {
				return err
			}
			if !known {
				if err := s.syncCommit(ctx, repo, summary.SHA, seq); err != nil {
					return err
				}
			}

			seq++
			if seq%flushEvery == 0 {
				if err := s.flush(ctx); err != nil {
					return err
				}
			}
		}
	}
	if err := pager.Err(); err != nil {
		return err
	}

	// Final flush, unconditional even when nothing is staged.
	if err := s.flush(ctx); err != nil {
		return err
	}

	// Prune and reorder need the complete observed sequence; a partial one
	// would delete or misorder commits still pending on a later page.
	pruned, err := s.store.PruneCommits(ctx, repo, observed)
	if err != nil {
		return err
	}
	prunedCounter.Add(float64(pruned))

	if err := s.store.ReorderCommits(ctx, repo, observed); err != nil {
		return err
	}

	s.logger.Debug("synchronized repository",
		"repo", repo.Name,
		"observed", len(observed),
		"pruned", pruned)

	return nil
}

// syncCommit fetches a commit's full detail, resolves its identities, and
// stages the commit aggregate. It never flushes.
func (s *Synchronizer) syncCommit(ctx context.Context, repo models.Repo, sha string, seq int) error {
	detail, err := s.feed.Commit(ctx, repo.Name, sha)
	if err != nil {
		return err
	}

	commit := models.Commit{
		RepoID:        repo.ID,
		SHA:           detail.SHA,
		AuthorName:    detail.AuthorName,
		AuthoredAt:    detail.AuthorDate.Local(),
		CommitterName: detail.CommitterName,
		CommittedAt:   detail.CommitterDate.Local(),
		Message:       detail.Message,
		Additions:     detail.Stats.Additions,
		Deletions:     detail.Stats.Deletions,
		Total:         detail.Stats.Total,
		// Provisional; ReorderCommits rewrites it after the full pass.
		SortOrder: int64(seq),
	}

	if detail.Author != nil {
		id, err := s.store.ResolveUser(ctx, *detail.Author)
		if err != nil {
			return err
		}
		commit.AuthorID = sql.NullInt64{Int64: id, Valid: true}
	}
	if detail.Committer != nil {
		id, err := s.store.ResolveUser(ctx, *detail.Committer)
		if err != nil {
			return err
		}
		commit.CommitterID = sql.NullInt64{Int64: id, Valid: true}
	}

	files := make([]models.CommitFile, 0, len(detail.Files))
	for _, f := range detail.Files {
		files = append(files, models.CommitFile{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Changes:   f.Changes,
		})
	}

	s.store.Stage(models.CommitWithFiles{Commit: commit, Files: files})
	syncedCounter.Inc()
	return nil
}

func (s *Synchronizer) flush(ctx context.Context) error {
	if err := s.store.Flush(ctx); err != nil {
		return err
	}
	flushesCounter.Inc()
	return nil
}
