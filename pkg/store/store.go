// Package store defines the storage interfaces for GitScope.
package store

// Store is an interface for managing repositories, users, and commits.
type Store interface {
	RepositoryStore
	UserStore
	CommitStore
}
