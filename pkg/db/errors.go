package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateKey is returned when a record already exists.
	ErrDuplicateKey = errors.New("record already exists")

	// ErrRecordNotFound is returned when a record is not found.
	ErrRecordNotFound = errors.New("record not found")
)

// WrapError translates driver-specific errors into package sentinels.
func WrapError(err error) error {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}

		// Driver errors
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			code := liteErr.Code()
			if code == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY ||
				code == sqlitelib.SQLITE_CONSTRAINT_UNIQUE {
				return ErrDuplicateKey
			}
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return ErrDuplicateKey
			}
		}
	}

	return err
}
