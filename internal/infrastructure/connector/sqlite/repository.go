// Package sqlite provides the mutable persistent backend on a SQLite
// database. Primary records live in their own tables, value objects are
// interned in a shared table and reference-counted by sweep, and the query
// surface compiles the filter set into SQL that agrees with the in-memory
// predicate result for result.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository owns the database handle shared by the per-kind connectors.
type Repository struct {
	db   *sql.DB
	path string
	log  *zap.SugaredLogger
}

// NewRepository opens (or creates) the database at path.
func NewRepository(path string, log *zap.SugaredLogger) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	// Mutating transactions take the write lock up front (BEGIN IMMEDIATE)
	// instead of upgrading mid-transaction, which busy_timeout does not
	// cover; read-only transactions stay deferred.
	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{db: db, path: path, log: log}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Persons (primary records; metadata stored as plain ISO strings)
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		created_by TEXT NOT NULL DEFAULT '',
		created_when TEXT NOT NULL DEFAULT '',
		modified_by TEXT NOT NULL DEFAULT '',
		modified_when TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS person_uris (
		person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
		uri TEXT NOT NULL,
		PRIMARY KEY (person_id, uri)
	);
	CREATE INDEX IF NOT EXISTS idx_person_uris_uri ON person_uris(uri);

	-- Sources
	CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_when TEXT NOT NULL DEFAULT '',
		modified_by TEXT NOT NULL DEFAULT '',
		modified_when TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS source_uris (
		source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
		uri TEXT NOT NULL,
		PRIMARY KEY (source_id, uri)
	);
	CREATE INDEX IF NOT EXISTS idx_source_uris_uri ON source_uris(uri);

	-- Interned value objects (roles, member groups, statement types,
	-- places, related persons), deduplicated by content per kind
	CREATE TABLE IF NOT EXISTS labeled_uris (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		uri TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		UNIQUE (kind, uri, label)
	);

	-- Factoids (the join records; person and source are mandatory)
	CREATE TABLE IF NOT EXISTS factoids (
		id TEXT PRIMARY KEY,
		created_by TEXT NOT NULL DEFAULT '',
		created_when TEXT NOT NULL DEFAULT '',
		modified_by TEXT NOT NULL DEFAULT '',
		modified_when TEXT NOT NULL DEFAULT '',
		derived_from TEXT NOT NULL DEFAULT '',
		person_id TEXT NOT NULL REFERENCES persons(id),
		source_id TEXT NOT NULL REFERENCES sources(id)
	);
	CREATE INDEX IF NOT EXISTS idx_factoids_person ON factoids(person_id);
	CREATE INDEX IF NOT EXISTS idx_factoids_source ON factoids(source_id);

	-- Statements; sort_key_lower/upper are the precomputed integer keys of
	-- the statement date completed towards Jan 1 / Dec 31, NULL when the
	-- date is absent or unparsable
	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		factoid_id TEXT REFERENCES factoids(id) ON DELETE SET NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_when TEXT NOT NULL DEFAULT '',
		modified_by TEXT NOT NULL DEFAULT '',
		modified_when TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		statement_content TEXT NOT NULL DEFAULT '',
		has_date INTEGER NOT NULL DEFAULT 0,
		sort_date TEXT NOT NULL DEFAULT '',
		date_label TEXT NOT NULL DEFAULT '',
		sort_key_lower INTEGER,
		sort_key_upper INTEGER,
		role_id TEXT REFERENCES labeled_uris(id),
		member_of_id TEXT REFERENCES labeled_uris(id),
		statement_type_id TEXT REFERENCES labeled_uris(id)
	);
	CREATE INDEX IF NOT EXISTS idx_statements_factoid ON statements(factoid_id);

	CREATE TABLE IF NOT EXISTS statement_uris (
		statement_id TEXT NOT NULL REFERENCES statements(id) ON DELETE CASCADE,
		uri TEXT NOT NULL,
		PRIMARY KEY (statement_id, uri)
	);
	CREATE INDEX IF NOT EXISTS idx_statement_uris_uri ON statement_uris(uri);

	CREATE TABLE IF NOT EXISTS statement_places (
		statement_id TEXT NOT NULL REFERENCES statements(id) ON DELETE CASCADE,
		labeled_uri_id TEXT NOT NULL REFERENCES labeled_uris(id),
		PRIMARY KEY (statement_id, labeled_uri_id)
	);
	CREATE TABLE IF NOT EXISTS statement_relates (
		statement_id TEXT NOT NULL REFERENCES statements(id) ON DELETE CASCADE,
		labeled_uri_id TEXT NOT NULL REFERENCES labeled_uris(id),
		PRIMARY KEY (statement_id, labeled_uri_id)
	);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// withTx runs fn inside an immediate write transaction, committing on
// success.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Errorw("rolling back transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// withReadTx runs fn inside a read-only transaction. Multi-query reads (id
// lookup plus row assembly) need one snapshot so a write committing midway
// cannot produce a view no single point in time ever had.
func (r *Repository) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("beginning read transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			r.log.Errorw("rolling back read transaction", "error", rbErr)
		}
	}()
	return fn(tx)
}

// rowExists reports whether a row with the given id exists in table. The
// table name is always one of our own constants, never user input.
func rowExists(ctx context.Context, q dbtx, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s id: %w", table, err)
	}
	return true, nil
}

// queryIDs returns the single-column string result of a query.
func queryIDs(ctx context.Context, q dbtx, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// queryCount returns the single integer result of a COUNT query.
func queryCount(ctx context.Context, q dbtx, query string, args ...any) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return count, nil
}
