package backend

import "errors"

var (
	// ErrRepoNotFound is returned when a repository does not exist.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoExist is returned when a repository already exists.
	ErrRepoExist = errors.New("repository already exists")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
