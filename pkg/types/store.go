package types

import (
	"errors"
	"time"
)

// Store is the local cache of API lookups and the run history.
// Callers attach to a backend, use it, and detach when done.
type Store interface {
	// Attach opens the backend described by config, creating DataDir if it
	// does not exist. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// GetSets returns cached sets no older than maxAge.
	// Returns ErrNotFound if none are fresh.
	GetSets(maxAge time.Duration) ([]Set, error)

	// PutSets replaces the cached sets.
	PutSets(sets []Set) error

	// GetPrinting returns the cached entry resolved for name, if it is no
	// older than maxAge. Returns ErrNotFound otherwise.
	GetPrinting(name string, maxAge time.Duration) (Entry, error)

	// PutPrinting caches the entry resolved for name. The bucket is not stored.
	PutPrinting(name string, entry Entry) error

	// RecordRun stores run, generating its RunID when empty, and returns the ID.
	RecordRun(run Run) (string, error)

	// ListRuns returns the most recent runs first, at most limit when limit > 0.
	ListRuns(limit int) ([]Run, error)

	// ImportRuns records runs whose RunID is not yet known and returns how
	// many were added.
	ImportRuns(runs []Run) (int, error)

	// Stats reports how many rows each cache table holds.
	Stats() (CacheStats, error)

	// Clear removes every cached set and printing. Run history is kept.
	Clear() error
}

// CacheStats counts rows in the store tables.
type CacheStats struct {
	Sets      int
	Printings int
	Runs      int
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("entry not found")
)

// Resolution and file errors.
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrNoEntries       = errors.New("cube list has no entries")
	ErrInvalidDeckFile = errors.New("file is not a valid XMage deck file")
)
