package mirror

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/gitscope/gitscope/pkg/store"
	"github.com/matryer/is"
)

type fakePager struct {
	pages [][]forge.CommitSummary
	pos   int
	err   error
}

func (p *fakePager) Next() bool {
	if p.pos >= len(p.pages) {
		return false
	}
	p.pos++
	return true
}

func (p *fakePager) Page() []forge.CommitSummary { return p.pages[p.pos-1] }
func (p *fakePager) Err() error                  { return p.err }

type fakeFeed struct {
	pages   map[string][][]forge.CommitSummary
	details map[string]*forge.CommitDetail
	errs    map[string]error
	listErr error

	listed  []string
	fetched []string
}

func (f *fakeFeed) Commits(_ context.Context, repo string) forge.Pager {
	f.listed = append(f.listed, repo)
	return &fakePager{pages: f.pages[repo], err: f.listErr}
}

func (f *fakeFeed) Commit(_ context.Context, _ string, sha string) (*forge.CommitDetail, error) {
	f.fetched = append(f.fetched, sha)
	if err, ok := f.errs[sha]; ok {
		return nil, err
	}
	if detail, ok := f.details[sha]; ok {
		return detail, nil
	}
	return commitDetail(sha), nil
}

func commitDetail(sha string) *forge.CommitDetail {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &forge.CommitDetail{
		SHA:           sha,
		Author:        &forge.Identity{RemoteID: 1, Login: "ada", AvatarURL: "a.png"},
		Committer:     &forge.Identity{RemoteID: 1, Login: "ada", AvatarURL: "a.png"},
		AuthorName:    "Ada Lovelace",
		AuthorDate:    date,
		CommitterName: "Ada Lovelace",
		CommitterDate: date.Add(time.Minute),
		Message:       "commit " + sha,
		Stats:         forge.CommitStats{Additions: 1, Deletions: 1, Total: 2},
		Files: []forge.FileChange{
			{Filename: "main.go", Status: "modified", Additions: 1, Deletions: 1, Changes: 2},
		},
	}
}

type fakeDatastore struct {
	repos []models.Repo
	keys  []store.CommitKey

	staged    []models.CommitWithFiles
	persisted []models.CommitWithFiles
	batches   []int
	flushErr  error

	keyLoads  int
	resolved  []int64
	pruned    map[int64][]string
	reordered map[int64][]string
}

func newFakeDatastore(repos ...models.Repo) *fakeDatastore {
	return &fakeDatastore{
		repos:     repos,
		pruned:    map[int64][]string{},
		reordered: map[int64][]string{},
	}
}

func (f *fakeDatastore) Repositories(_ context.Context) ([]models.Repo, error) {
	return f.repos, nil
}

func (f *fakeDatastore) ResolveUser(_ context.Context, identity forge.Identity) (int64, error) {
	f.resolved = append(f.resolved, identity.RemoteID)
	return identity.RemoteID + 100, nil
}

func (f *fakeDatastore) Stage(commit models.CommitWithFiles) {
	f.staged = append(f.staged, commit)
}

func (f *fakeDatastore) Flush(_ context.Context) error {
	if f.flushErr != nil {
		return f.flushErr
	}
	if len(f.staged) == 0 {
		return nil
	}
	f.batches = append(f.batches, len(f.staged))
	f.persisted = append(f.persisted, f.staged...)
	f.staged = f.staged[:0]
	return nil
}

func (f *fakeDatastore) PruneCommits(_ context.Context, repo models.Repo, observed []string) (int64, error) {
	f.pruned[repo.ID] = append([]string{}, observed...)
	return 0, nil
}

func (f *fakeDatastore) ReorderCommits(_ context.Context, repo models.Repo, observed []string) error {
	f.reordered[repo.ID] = append([]string{}, observed...)
	return nil
}

func (f *fakeDatastore) CommitKeys(_ context.Context) ([]store.CommitKey, error) {
	f.keyLoads++
	return f.keys, nil
}

func summaries(shas ...string) []forge.CommitSummary {
	page := make([]forge.CommitSummary, 0, len(shas))
	for _, sha := range shas {
		page = append(page, forge.CommitSummary{SHA: sha})
	}
	return page
}

func seqSummaries(n int) [][]forge.CommitSummary {
	var pages [][]forge.CommitSummary
	for i := 0; i < n; i += forge.PageSize {
		var page []forge.CommitSummary
		for j := i; j < i+forge.PageSize && j < n; j++ {
			page = append(page, forge.CommitSummary{SHA: fmt.Sprintf("c%04d", j)})
		}
		pages = append(pages, page)
	}
	return pages
}

func testRepo(id int64, name string) models.Repo {
	return models.Repo{ID: id, Name: name}
}

func TestSyncFreshRepository(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": {summaries("c3", "c2", "c1")},
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(feed.fetched, []string{"c3", "c2", "c1"})
	is.Equal(ds.batches, []int{3}) // one final flush
	is.Equal(ds.pruned[1], []string{"c3", "c2", "c1"})
	is.Equal(ds.reordered[1], []string{"c3", "c2", "c1"})

	// Sort order seeds from the listing position.
	is.Equal(ds.persisted[0].SortOrder, int64(0))
	is.Equal(ds.persisted[1].SortOrder, int64(1))
	is.Equal(ds.persisted[2].SortOrder, int64(2))
}

func TestSyncSkipsKnownCommits(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	ds.keys = []store.CommitKey{
		{RepoID: 1, SHA: "c2"},
		{RepoID: 2, SHA: "c3"}, // other repo, must not mask
	}
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": {summaries("c3", "c2", "c1")},
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(feed.fetched, []string{"c3", "c1"})
	// Known commits still count toward the observed sequence.
	is.Equal(ds.pruned[1], []string{"c3", "c2", "c1"})
	is.Equal(ds.persisted[0].SortOrder, int64(0))
	is.Equal(ds.persisted[1].SortOrder, int64(2))
}

func TestSyncFlushCadence(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": seqSummaries(2500),
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(ds.batches, []int{1000, 1000, 500})
	is.Equal(len(ds.persisted), 2500)
}

func TestSyncFlushCadenceCountsKnownCommits(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	pages := seqSummaries(1500)
	// The first 600 positions are already mirrored. The flush still fires at
	// position 1000, carrying only the 400 new commits staged so far.
	for _, page := range pages[:6] {
		for _, s := range page {
			ds.keys = append(ds.keys, store.CommitKey{RepoID: 1, SHA: s.SHA})
		}
	}
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": pages,
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(ds.batches, []int{400, 500})
}

func TestSyncEmptyListing(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(len(ds.persisted), 0)
	// An empty observed sequence still prunes; everything local is stale.
	is.Equal(ds.pruned[1], []string{})
	is.Equal(ds.reordered[1], []string{})
}

func TestSyncPagerErrorSkipsPruneAndReorder(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{
		pages: map[string][][]forge.CommitSummary{
			"acme/widgets": {summaries("c1")},
		},
		listErr: errors.New("rate limited"),
	}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	err := sync.Sync(context.TODO())
	is.True(err != nil)
	is.Equal(len(ds.pruned), 0)
	is.Equal(len(ds.reordered), 0)
}

func TestSyncCommitFetchErrorAborts(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"), testRepo(2, "acme/gears"))
	feed := &fakeFeed{
		pages: map[string][][]forge.CommitSummary{
			"acme/widgets": {summaries("c1", "c2")},
			"acme/gears":   {summaries("g1")},
		},
		errs: map[string]error{"c2": forge.ErrNotFound},
	}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	err := sync.Sync(context.TODO())
	is.True(errors.Is(err, forge.ErrNotFound))
	// The first failure aborts the run before later repositories.
	is.Equal(feed.listed, []string{"acme/widgets"})
}

func TestSyncUnlinkedIdentities(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	detail := commitDetail("c1")
	detail.Author = nil
	detail.Committer = nil
	feed := &fakeFeed{
		pages: map[string][][]forge.CommitSummary{
			"acme/widgets": {summaries("c1")},
		},
		details: map[string]*forge.CommitDetail{"c1": detail},
	}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(len(ds.resolved), 0)
	commit := ds.persisted[0]
	is.True(!commit.AuthorID.Valid)
	is.True(!commit.CommitterID.Valid)
	is.Equal(commit.AuthorName, "Ada Lovelace")
	is.Equal(commit.CommitterName, "Ada Lovelace")
}

func TestSyncCommitFields(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": {summaries("c1")},
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	detail := commitDetail("c1")
	commit := ds.persisted[0]
	is.Equal(commit.RepoID, int64(1))
	is.Equal(commit.SHA, "c1")
	is.Equal(commit.Message, "commit c1")
	is.True(commit.AuthoredAt.Equal(detail.AuthorDate))
	is.True(commit.CommittedAt.Equal(detail.CommitterDate))
	is.Equal(commit.Additions, int64(1))
	is.Equal(commit.Deletions, int64(1))
	is.Equal(commit.Total, int64(2))
	is.Equal(commit.AuthorID.Int64, int64(101))
	is.Equal(commit.CommitterID.Int64, int64(101))
	is.Equal(len(ds.persisted[0].Files), 1)
	is.Equal(ds.persisted[0].Files[0].Filename, "main.go")
}

func TestSyncSharesIndexAcrossRepositories(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"), testRepo(2, "acme/gears"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": {summaries("c1")},
		"acme/gears":   {summaries("g1")},
	}}
	sync := NewSynchronizer(context.TODO(), ds, feed)

	is.NoErr(sync.Sync(context.TODO()))

	is.Equal(ds.keyLoads, 1)
	is.Equal(feed.listed, []string{"acme/widgets", "acme/gears"})
}

func TestSyncIdempotent(t *testing.T) {
	is := is.New(t)
	ds := newFakeDatastore(testRepo(1, "acme/widgets"))
	feed := &fakeFeed{pages: map[string][][]forge.CommitSummary{
		"acme/widgets": {summaries("c2", "c1")},
	}}

	is.NoErr(NewSynchronizer(context.TODO(), ds, feed).Sync(context.TODO()))
	is.Equal(len(ds.persisted), 2)

	// A second run against the now-populated index fetches nothing new.
	for _, c := range ds.persisted {
		ds.keys = append(ds.keys, store.CommitKey{RepoID: c.RepoID, SHA: c.SHA})
	}
	feed.fetched = nil
	is.NoErr(NewSynchronizer(context.TODO(), ds, feed).Sync(context.TODO()))

	is.Equal(len(feed.fetched), 0)
	is.Equal(len(ds.persisted), 2)
}
