// Package store implements the embedded relational backing store: a
// single-file or in-memory SQLite database holding features, their
// parent/child closure, directives and auto-increment counters.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no cgo

	"github.com/gffarchive/gffarchive/internal/model"
)

// Store wraps the underlying *sql.DB with the schema and pragma handling
// the ingestion pipeline needs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the store at path. path may be ":memory:"
// for a purely in-process store. When force is true, an existing file at
// path is removed first rather than reused.
func Open(ctx context.Context, path string, force bool) (*Store, error) {
	if force && path != ":memory:" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing existing store %q: %w", path, err)
		}
	}

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if path == ":memory:" {
		// A single shared in-memory connection: a connection pool would
		// otherwise hand concurrent callers independent empty databases.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for callers (query layer, verifier)
// that need raw SQL access.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// BeginBulkLoad relaxes durability for the duration of a bulk ingest:
// WAL journalling and asynchronous sync. EndBulkLoad must be called
// before the store is considered durable again.
func (s *Store) BeginBulkLoad(ctx context.Context) error {
	stmts := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = OFF",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("setting bulk-load pragma %q: %w", stmt, err)
		}
	}
	return nil
}

// EndBulkLoad restores durable journalling after a bulk ingest finishes.
func (s *Store) EndBulkLoad(ctx context.Context) error {
	stmts := []string{
		"PRAGMA synchronous = FULL",
		"PRAGMA journal_mode = DELETE",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("restoring durable pragma %q: %w", stmt, err)
		}
	}
	return nil
}

// UpsertFeature inserts or overwrites a feature row keyed on id.
func (s *Store) UpsertFeature(ctx context.Context, f *model.Feature) error {
	attrsJSON, err := json.Marshal(f.Attributes.AsMap())
	if err != nil {
		return fmt.Errorf("marshalling attributes for %q: %w", f.ID, err)
	}
	extraJSON, err := json.Marshal(f.Extra)
	if err != nil {
		return fmt.Errorf("marshalling extra fields for %q: %w", f.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO features (id, seqid, source, featuretype, start, end, score, strand, frame, attributes, extra, bin, line_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seqid=excluded.seqid, source=excluded.source, featuretype=excluded.featuretype,
			start=excluded.start, end=excluded.end, score=excluded.score, strand=excluded.strand,
			frame=excluded.frame, attributes=excluded.attributes, extra=excluded.extra, bin=excluded.bin,
			line_number=excluded.line_number
	`, f.ID, f.Seqid, f.Source, f.FeatureType, nullableInt(f.Start), nullableInt(f.End),
		f.Score, f.Strand, f.Frame, string(attrsJSON), string(extraJSON), f.Bin, f.LineNumber)
	if err != nil {
		return fmt.Errorf("upserting feature %q: %w", f.ID, err)
	}
	return nil
}

func nullableInt(n model.NumberOrDot) interface{} {
	if !n.Present {
		return nil
	}
	return n.Value
}

// GetFeature loads a feature by id. Attributes are rebuilt under dialect's
// recorded key order.
func (s *Store) GetFeature(ctx context.Context, id string, dialect *model.Dialect) (*model.Feature, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seqid, source, featuretype, start, end, score, strand, frame, attributes, extra, bin, line_number
		FROM features WHERE id = ?
	`, id)
	return scanFeature(row, dialect)
}

type scannable interface {
	Scan(dest ...interface{}) error
}

// ScanFeatureRow scans one row of a features-table result set (as
// selected by the query package's region search) into a Feature.
func ScanFeatureRow(row scannable, dialect *model.Dialect) (*model.Feature, error) {
	return scanFeature(row, dialect)
}

func scanFeature(row scannable, dialect *model.Dialect) (*model.Feature, error) {
	var (
		f                    model.Feature
		start, end           sql.NullInt64
		attrsJSON, extraJSON string
	)
	f.Dialect = dialect
	if err := row.Scan(&f.ID, &f.Seqid, &f.Source, &f.FeatureType, &start, &end,
		&f.Score, &f.Strand, &f.Frame, &attrsJSON, &extraJSON, &f.Bin, &f.LineNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning feature: %w", err)
	}
	if start.Valid {
		f.Start = model.Number(start.Int64)
	}
	if end.Valid {
		f.End = model.Number(end.Int64)
	}

	var attrMap map[string][]string
	if err := json.Unmarshal([]byte(attrsJSON), &attrMap); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	order := attrKeyOrder(dialect)
	f.Attributes = model.AttributesFromMap(attrMap, order)

	var extra []string
	if err := json.Unmarshal([]byte(extraJSON), &extra); err != nil {
		return nil, fmt.Errorf("decoding extra fields: %w", err)
	}
	f.Extra = extra
	return &f, nil
}

func attrKeyOrder(dialect *model.Dialect) []string {
	if dialect == nil {
		return nil
	}
	return dialect.Order
}

// InsertRelation records a parent/child edge at the given closure level
// (1 = direct Parent/transcript-gene edge, 2 = grandparent closure).
func (s *Store) InsertRelation(ctx context.Context, parent, child string, level int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO relations (parent, child, level) VALUES (?, ?, ?)
	`, parent, child, level)
	if err != nil {
		return fmt.Errorf("inserting relation %s->%s: %w", parent, child, err)
	}
	return nil
}

// Children returns the ids of level's direct children of parent.
func (s *Store) Children(ctx context.Context, parent string, level int) ([]string, error) {
	return s.queryRelationColumn(ctx, `SELECT child FROM relations WHERE parent = ? AND level = ?`, parent, level)
}

// Parents returns the ids of level's direct parents of child.
func (s *Store) Parents(ctx context.Context, child string, level int) ([]string, error) {
	return s.queryRelationColumn(ctx, `SELECT parent FROM relations WHERE child = ? AND level = ?`, child, level)
}

func (s *Store) queryRelationColumn(ctx context.Context, query string, arg string, level int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg, level)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AppendDirective records a "##" pragma line at the given ordinal,
// replacing any directive already stored there.
func (s *Store) AppendDirective(ctx context.Context, ordinal int, directive string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO directives (ordinal, directive) VALUES (?, ?)
		ON CONFLICT(ordinal) DO UPDATE SET directive=excluded.directive
	`, ordinal, directive)
	if err != nil {
		return fmt.Errorf("appending directive: %w", err)
	}
	return nil
}

// Directives returns all recorded directives in ordinal order.
func (s *Store) Directives(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT directive FROM directives ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying directives: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning directive: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SaveCounters persists the auto-increment allocator state.
func (s *Store) SaveCounters(ctx context.Context, counters map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning counters transaction: %w", err)
	}
	defer tx.Rollback()

	for key, n := range counters {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO autoincrements (key, n) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET n=excluded.n
		`, key, n); err != nil {
			return fmt.Errorf("saving counter %q: %w", key, err)
		}
	}
	return tx.Commit()
}

// LoadCounters reads back the auto-increment allocator state that
// SaveCounters persisted.
func (s *Store) LoadCounters(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, n FROM autoincrements`)
	if err != nil {
		return nil, fmt.Errorf("querying counters: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scanning counter: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

// SetMeta records a single key/value pair in the meta table, used for
// bookkeeping such as the elected dialect's canonical form.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %q: %w", key, err)
	}
	return nil
}

// Meta reads a single meta value, returning ok=false if absent.
func (s *Store) Meta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading meta %q: %w", key, err)
	}
	return value, true, nil
}
