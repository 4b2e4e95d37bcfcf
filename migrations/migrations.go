// Package migrations embeds the database schema migrations.
//
// Postgres schemas are applied with external tooling against the embedded
// files. SQLite runs in local mode without a migration tool, so the up
// migrations are applied directly on startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"

	"embed"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the embedded Postgres migration files.
func Postgres() (fs.FS, error) {
	return fs.Sub(files, "postgres")
}

// SQLite returns the embedded SQLite migration files.
func SQLite() (fs.FS, error) {
	return fs.Sub(files, "sqlite")
}

// RunSQLite applies all SQLite up migrations in order. The schema only uses
// IF NOT EXISTS statements, so reapplying on every startup is safe.
func RunSQLite(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(files, "sqlite/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list sqlite migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}
