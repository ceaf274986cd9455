package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// GetSets returns every cached set when the oldest of them is no older than
// maxAge. A partially stale cache is treated as missing.
func (b *Backend) GetSets(maxAge time.Duration) ([]types.Set, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var oldest sql.NullString
	if err := b.db.QueryRow("SELECT MIN(fetched_at) FROM sets").Scan(&oldest); err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	if !oldest.Valid || !b.fresh(oldest.String, maxAge) {
		return nil, types.ErrNotFound
	}

	rows, err := b.db.Query("SELECT code, name, set_type, release_date FROM sets ORDER BY release_date, code")
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	var sets []types.Set
	for rows.Next() {
		var s types.Set
		if err := rows.Scan(&s.Code, &s.Name, &s.Type, &s.ReleaseDate); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// PutSets replaces the cached sets in one transaction.
func (b *Backend) PutSets(sets []types.Set) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sets"); err != nil {
		return fmt.Errorf("delete sets: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO sets (code, name, set_type, release_date, fetched_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	fetchedAt := b.now().UTC().Format(time.RFC3339)
	for _, s := range sets {
		if _, err := stmt.Exec(s.Code, s.Name, s.Type, s.ReleaseDate, fetchedAt); err != nil {
			return fmt.Errorf("insert set %s: %w", s.Code, err)
		}
	}
	return tx.Commit()
}

// GetPrinting returns the entry cached for the requested name. The Bucket of
// the returned entry is empty.
func (b *Backend) GetPrinting(name string, maxAge time.Duration) (types.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Entry{}, types.ErrStoreDetached
	}

	var e types.Entry
	var fetchedAt string
	err := b.db.QueryRow(
		"SELECT name, set_code, number, fetched_at FROM printings WHERE query_name = ?", name,
	).Scan(&e.Name, &e.SetCode, &e.Number, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, types.ErrNotFound
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("query printing: %w", err)
	}
	if !b.fresh(fetchedAt, maxAge) {
		return types.Entry{}, types.ErrNotFound
	}
	return e, nil
}

// PutPrinting caches the entry resolved for name, replacing any earlier one.
func (b *Backend) PutPrinting(name string, entry types.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	_, err := b.db.Exec(`INSERT OR REPLACE INTO printings (query_name, name, set_code, number, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		name, entry.Name, entry.SetCode, entry.Number, b.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert printing %q: %w", name, err)
	}
	return nil
}
