package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// RecordRun stores run. When RunID is empty a UUID v7 is generated; when
// CreatedAt is zero the current time is used. Returns the run ID.
func (b *Backend) RecordRun(run types.Run) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if run.RunID == "" {
		run.RunID = newUUID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = b.now()
	}

	_, err := b.db.Exec(`INSERT INTO runs
		(run_id, cube_name, cube_date, author, source, output, cards, distinct_cards, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.CubeName,
		run.CubeDate.UTC().Format(time.RFC3339),
		run.Author,
		run.Source,
		run.Output,
		run.Cards,
		run.Distinct,
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.RunID, nil
}

// ListRuns returns recorded runs, newest first. A non-positive limit returns all.
func (b *Backend) ListRuns(limit int) ([]types.Run, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	query := `SELECT run_id, cube_name, cube_date, author, source, output, cards, distinct_cards, created_at
		FROM runs ORDER BY created_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var r types.Run
		var cubeDate, createdAt string
		if err := rows.Scan(&r.RunID, &r.CubeName, &cubeDate, &r.Author, &r.Source,
			&r.Output, &r.Cards, &r.Distinct, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.CubeDate, err = time.Parse(time.RFC3339, cubeDate); err != nil {
			return nil, fmt.Errorf("parse cube_date: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ImportRuns inserts runs in one transaction. Runs whose ID is already
// recorded are left untouched; runs without an ID get a new one. Returns the
// number of rows inserted.
func (b *Backend) ImportRuns(runs []types.Run) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO runs
		(run_id, cube_name, cube_date, author, source, output, cards, distinct_cards, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing run insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, run := range runs {
		if run.RunID == "" {
			run.RunID = newUUID()
		}
		if run.CreatedAt.IsZero() {
			run.CreatedAt = b.now()
		}
		res, err := stmt.Exec(
			run.RunID,
			run.CubeName,
			run.CubeDate.UTC().Format(time.RFC3339),
			run.Author,
			run.Source,
			run.Output,
			run.Cards,
			run.Distinct,
			run.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("import run %s: %w", run.RunID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return inserted, nil
}
