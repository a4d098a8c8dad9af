// Package cmd provides shared setup helpers for gitscope commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gitscope/gitscope/pkg/backend"
	"github.com/gitscope/gitscope/pkg/config"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/gitscope/gitscope/pkg/forge/github"
	"github.com/gitscope/gitscope/pkg/forge/gitlab"
	"github.com/gitscope/gitscope/pkg/store"
	"github.com/gitscope/gitscope/pkg/store/database"
	"github.com/spf13/cobra"
)

// InitBackendContext initializes the backend context. It opens the database
// and attaches the datastore, backend, and forge client to the command
// context.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx = db.WithContext(ctx, dbx)
	dbstore := database.New(ctx, dbx)
	ctx = store.WithContext(ctx, dbstore)
	be := backend.New(ctx, cfg, dbx, dbstore)
	ctx = backend.WithContext(ctx, be)

	feed, err := NewForgeClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create forge client: %w", err)
	}
	ctx = forge.WithContext(ctx, feed)

	cmd.SetContext(ctx)

	return nil
}

// NewForgeClient returns a forge client for the configured forge type.
func NewForgeClient(ctx context.Context, cfg *config.Config) (forge.Client, error) {
	switch strings.ToLower(cfg.Forge.Type) {
	case "github":
		return github.New(ctx, cfg.Forge.BaseURL, cfg.Forge.Token)
	case "gitlab":
		return gitlab.New(cfg.Forge.BaseURL, cfg.Forge.Token)
	default:
		return nil, fmt.Errorf("unsupported forge type %q", cfg.Forge.Type)
	}
}

// CloseDBContext closes the database context.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dbx := db.FromContext(ctx)
	if dbx != nil {
		if err := dbx.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}
