package models

import (
	"database/sql"
	"time"
)

// Commit is a database model for a mirrored commit.
// The (repo_id, sha) pair is unique. SortOrder is the commit's position in
// the most recently observed remote listing, newest first.
type Commit struct {
	ID            int64         `db:"id"`
	RepoID        int64         `db:"repo_id"`
	SHA           string        `db:"sha"`
	AuthorID      sql.NullInt64 `db:"author_id"`
	AuthorName    string        `db:"author_name"`
	AuthoredAt    time.Time     `db:"authored_at"`
	CommitterID   sql.NullInt64 `db:"committer_id"`
	CommitterName string        `db:"committer_name"`
	CommittedAt   time.Time     `db:"committed_at"`
	Message       string        `db:"message"`
	Additions     int64         `db:"additions"`
	Deletions     int64         `db:"deletions"`
	Total         int64         `db:"total"`
	SortOrder     int64         `db:"sort_order"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// CommitFile is a database model for a file changed by a commit.
// It is created and deleted together with its commit.
type CommitFile struct {
	ID        int64     `db:"id"`
	CommitID  int64     `db:"commit_id"`
	Filename  string    `db:"filename"`
	Status    string    `db:"status"`
	Additions int64     `db:"additions"`
	Deletions int64     `db:"deletions"`
	Changes   int64     `db:"changes"`
	CreatedAt time.Time `db:"created_at"`
}

// CommitWithFiles is a commit aggregate: the commit row and its file rows.
// It is the unit staged for batch persistence.
type CommitWithFiles struct {
	Commit
	Files []CommitFile
}
