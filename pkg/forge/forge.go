// Package forge defines the client interface for remote code-hosting forges.
package forge

import (
	"context"
	"errors"
	"time"
)

// PageSize is the number of commit summaries requested per listing page.
const PageSize = 100

var (
	// ErrNotFound is returned when a repository or commit is missing upstream.
	ErrNotFound = errors.New("not found upstream")

	// ErrRateLimited is returned when the forge API throttles the client.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedPayload is returned when a commit payload is missing
	// required fields.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Identity is a forge account attached to a commit.
type Identity struct {
	RemoteID  int64
	Login     string
	AvatarURL string
}

// CommitSummary is a commit listing entry.
type CommitSummary struct {
	SHA string
}

// CommitStats are the aggregate line counters of a commit.
type CommitStats struct {
	Additions int64
	Deletions int64
	Total     int64
}

// FileChange is a file changed by a commit, as reported upstream.
// Status is one of "added", "modified", "removed", or "renamed".
type FileChange struct {
	Filename  string
	Status    string
	Additions int64
	Deletions int64
	Changes   int64
}

// CommitDetail is the full payload of a single commit.
// Author and Committer are nil when the forge has no account linked to the
// respective identity; the raw names and dates are always present.
type CommitDetail struct {
	SHA           string
	Author        *Identity
	Committer     *Identity
	AuthorName    string
	AuthorDate    time.Time
	CommitterName string
	CommitterDate time.Time
	Message       string
	Stats         CommitStats
	Files         []FileChange
}

// Pager iterates the pages of a repository's commit listing, newest first.
// The usual pattern:
//
//	pager := client.Commits(ctx, repo)
//	for pager.Next() {
//		for _, c := range pager.Page() { ... }
//	}
//	if err := pager.Err(); err != nil { ... }
type Pager interface {
	// Next fetches the next page. It returns false when the listing is
	// exhausted or an error occurred.
	Next() bool

	// Page returns the most recently fetched page.
	Page() []CommitSummary

	// Err returns the first error encountered while paging.
	Err() error
}

// Client lists and fetches commits from a forge.
type Client interface {
	// Commits returns a pager over the repository's commit listing,
	// PageSize summaries at a time.
	Commits(ctx context.Context, repo string) Pager

	// Commit fetches the full detail of a single commit.
	Commit(ctx context.Context, repo string, sha string) (*CommitDetail, error)
}
