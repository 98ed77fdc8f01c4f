package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/service"
)

const runColumns = `id, created_at, input, min_support, min_confidence, precision,
	join_strategy, threshold, transactions, distinct_items, longest_transaction,
	frequent_itemsets, rules, itemsets_ns, rules_ns`

// SaveRun inserts a run record and its per-level counts, setting run.ID.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.RunRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (created_at, input, min_support, min_confidence, precision,
			join_strategy, threshold, transactions, distinct_items, longest_transaction,
			frequent_itemsets, rules, itemsets_ns, rules_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.CreatedAt.UTC(),
		run.Input,
		run.MinSupport,
		run.MinConfidence,
		run.Precision,
		run.Join,
		run.Threshold,
		run.Transactions,
		run.DistinctItems,
		run.LongestTransaction,
		run.FrequentItemsets,
		run.Rules,
		run.ItemsetsDuration.Nanoseconds(),
		run.RulesDuration.Nanoseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	for i, count := range run.LevelCounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_levels (run_id, size, count) VALUES (?, ?, ?)`,
			id, i+1, count); err != nil {
			return fmt.Errorf("failed to insert level %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return nil
}

// GetRun loads one run by id.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (*model.RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := s.loadLevels(ctx, s.db, []*model.RunRecord{run}); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, filter service.RunFilter) ([]model.RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Input != "" {
		where = append(where, "input = ?")
		args = append(args, filter.Input)
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var runs []*model.RunRecord
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	err = rows.Err()
	// release the single connection before loading levels
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	if err := s.loadLevels(ctx, s.db, runs); err != nil {
		return nil, err
	}

	out := make([]model.RunRecord, len(runs))
	for i, run := range runs {
		out[i] = *run
	}
	return out, nil
}

func (s *SQLiteStorage) loadLevels(ctx context.Context, q queryable, runs []*model.RunRecord) error {
	for _, run := range runs {
		rows, err := q.QueryContext(ctx,
			`SELECT count FROM run_levels WHERE run_id = ? ORDER BY size`, run.ID)
		if err != nil {
			return fmt.Errorf("failed to load levels for run %d: %w", run.ID, err)
		}

		run.LevelCounts = run.LevelCounts[:0]
		for rows.Next() {
			var count int
			if err := rows.Scan(&count); err != nil {
				_ = rows.Close()
				return fmt.Errorf("failed to scan level: %w", err)
			}
			run.LevelCounts = append(run.LevelCounts, count)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return fmt.Errorf("failed to iterate levels: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.RunRecord, error) {
	var (
		run        model.RunRecord
		itemsetsNS int64
		rulesNS    int64
	)
	if err := row.Scan(
		&run.ID,
		&run.CreatedAt,
		&run.Input,
		&run.MinSupport,
		&run.MinConfidence,
		&run.Precision,
		&run.Join,
		&run.Threshold,
		&run.Transactions,
		&run.DistinctItems,
		&run.LongestTransaction,
		&run.FrequentItemsets,
		&run.Rules,
		&itemsetsNS,
		&rulesNS,
	); err != nil {
		return nil, err
	}
	run.ItemsetsDuration = time.Duration(itemsetsNS)
	run.RulesDuration = time.Duration(rulesNS)
	return &run, nil
}
