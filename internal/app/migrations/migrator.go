package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/yigit/persondata/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Schema returns the migrations compiled into the binary.
func Schema() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrator manages database migrations
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Apply runs every *.sql file of fsys in name order, each in its own
// transaction, skipping versions already recorded. The version is the
// filename prefix before the first underscore.
func (m *Migrator) Apply(ctx context.Context, fsys fs.FS) (int, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return 0, err
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	applied := 0
	for _, name := range names {
		version := strings.SplitN(path.Base(name), "_", 2)[0]

		done, err := m.isMigrationApplied(ctx, version)
		if err != nil {
			return applied, err
		}
		if done {
			logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if err := m.applyOne(ctx, version, string(content)); err != nil {
			logger.Error().Err(err).Str("migration", name).Msg("Migration failed")
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		applied++
		logger.Info().Str("migration", name).Msg("Migration applied")
	}

	return applied, nil
}

func (m *Migrator) applyOne(ctx context.Context, version, content string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("error occurred during SQL migration execution: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MigrateFromDirectory applies dir when set, otherwise the embedded schema.
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dir string) (int, error) {
	if dir == "" {
		return m.Apply(ctx, Schema())
	}
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("failed to read migration directory: %w", err)
	}
	return m.Apply(ctx, os.DirFS(dir))
}
