package migrate

import (
	"context"
	"testing"

	"github.com/gitscope/gitscope/pkg/test"
)

func TestMigrate(t *testing.T) {
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(ctx, dbx); err != nil {
		t.Errorf("Migrate() => %v, want nil error", err)
	}

	// Migrating an already migrated database is a no-op.
	if err := Migrate(ctx, dbx); err != nil {
		t.Errorf("Migrate() again => %v, want nil error", err)
	}
}

func TestRollback(t *testing.T) {
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(ctx, dbx); err != nil {
		t.Fatal(err)
	}
	if err := Rollback(ctx, dbx); err != nil {
		t.Errorf("Rollback() => %v, want nil error", err)
	}
	if err := Rollback(ctx, dbx); err == nil {
		t.Error("Rollback() on empty history => nil, want error")
	}
}
