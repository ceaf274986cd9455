// Package sqlite implements the SQLite store for the xcube lookup cache and
// run history.
package sqlite

// Schema DDL. Tables survive across runs, so every statement is idempotent.
const (
	createSets = `CREATE TABLE IF NOT EXISTS sets (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    set_type TEXT NOT NULL,
    release_date TEXT NOT NULL,
    fetched_at TEXT NOT NULL
);`

	createPrintings = `CREATE TABLE IF NOT EXISTS printings (
    query_name TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    set_code TEXT NOT NULL,
    number TEXT NOT NULL,
    fetched_at TEXT NOT NULL
);`

	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    cube_name TEXT NOT NULL,
    cube_date TEXT NOT NULL,
    author TEXT NOT NULL,
    source TEXT NOT NULL,
    output TEXT NOT NULL,
    cards INTEGER NOT NULL,
    distinct_cards INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

const (
	idxSetsFetched = `CREATE INDEX IF NOT EXISTS idx_sets_fetched ON sets(fetched_at);`
	idxRunsCreated = `CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createSets,
	createPrintings,
	createRuns,
	idxSetsFetched,
	idxRunsCreated,
}

// dbFileName is the database file created inside the data directory.
const dbFileName = "xcube.db"
