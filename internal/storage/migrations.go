package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial run history schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					created_at DATETIME NOT NULL,
					input TEXT NOT NULL,
					min_support INTEGER NOT NULL,
					min_confidence REAL NOT NULL,
					precision INTEGER NOT NULL,
					join_strategy TEXT NOT NULL,
					threshold TEXT NOT NULL,
					transactions INTEGER NOT NULL,
					distinct_items INTEGER NOT NULL,
					longest_transaction INTEGER NOT NULL,
					frequent_itemsets INTEGER NOT NULL,
					rules INTEGER NOT NULL,
					itemsets_ns INTEGER NOT NULL,
					rules_ns INTEGER NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS run_levels (
					run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
					size INTEGER NOT NULL,
					count INTEGER NOT NULL,
					PRIMARY KEY (run_id, size)
				)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Index runs by input for sweeps",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE INDEX IF NOT EXISTS idx_runs_input_created ON runs(input, created_at)`,
			})
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate brings the schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
