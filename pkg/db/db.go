// Package db provides database interface and connection management for GitScope.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gitscope/gitscope/pkg/config"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	driverSQLite   = "sqlite"
	driverSQLite3  = "sqlite3"
	driverPostgres = "postgres"
)

// DB is the database connection.
type DB struct {
	*sqlx.DB
	logger *log.Logger
}

var _ Handler = (*DB)(nil)

// Open opens a database connection.
func Open(ctx context.Context, driverName string, dsn string) (*DB, error) {
	switch driverName {
	case driverSQLite, driverSQLite3, driverPostgres:
	default:
		return nil, fmt.Errorf("unknown driver %q", driverName)
	}

	var logger *log.Logger
	if config.IsVerbose() {
		logger = log.FromContext(ctx).WithPrefix("db")
	}

	dbx, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}

	return &DB{
		DB:     dbx,
		logger: logger,
	}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Tx is a database transaction.
type Tx struct {
	*sqlx.Tx
	logger *log.Logger
}

var _ Handler = (*Tx)(nil)

// Transaction runs the given function within a transaction.
func (d *DB) Transaction(fn func(tx *Tx) error) error {
	return d.TransactionContext(context.Background(), fn)
}

// TransactionContext runs the given function within a transaction using the
// given context. The transaction is rolled back if the function returns an
// error, otherwise it is committed.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tx := &Tx{txx, d.logger}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return fmt.Errorf("rollback transaction: %w", rerr)
		}

		return err
	}

	if err := tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
