package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

// NewMigrationProvider creates a goose provider for the SQL files under dir of migrations.
// Closing the provider closes db.
func NewMigrationProvider(db *sqlx.DB, migrations fs.FS, dir string) (*goose.Provider, error) {
	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.Sub(%s) > %w", dir, err)
	}
	provider, err := goose.NewProvider(goose.DialectMySQL, db.DB, sub)
	if err != nil {
		return nil, fmt.Errorf("goose.NewProvider() > %w", err)
	}
	return provider, nil
}

// Migrate applies the pending migrations under dir of migrations in version order.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS, dir string) error {
	provider, err := NewMigrationProvider(db, migrations, dir)
	if err != nil {
		return fmt.Errorf("NewMigrationProvider() > %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("provider.Up() > %w", err)
	}
	for _, result := range results {
		slog.Default().Info("applied a migration",
			"version", result.Source.Version,
			"path", result.Source.Path,
			"duration", result.Duration,
		)
	}
	return nil
}
