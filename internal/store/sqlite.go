package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/serroba/duckbin/internal/snippet"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snippets (
	id         TEXT PRIMARY KEY,
	slug       TEXT NOT NULL,
	title      TEXT NOT NULL,
	code       TEXT NOT NULL,
	language   TEXT NOT NULL,
	theme      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_snippets_slug ON snippets(slug);
CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);
CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at DESC, id DESC);
`

// sqliteLowerFunc names a lowercase function that folds all of Unicode.
// SQLite's built-in lower() only folds ASCII.
const sqliteLowerFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteStore is a SQLite implementation of snippet.Repository.
// Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}

	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate creates the snippets table and its indexes if missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) SlugExists(ctx context.Context, slug snippet.Slug) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM snippets WHERE slug = ?)`, string(slug),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking slug: %w", err)
	}

	return exists, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, snip *snippet.Snippet) error {
	now := s.now()
	id := xid.NewWithTime(now).String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snippets (`+snippetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		string(snip.Slug),
		snip.Title,
		snip.Code,
		snip.Language,
		snip.Theme,
		now.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return snippet.ErrSlugTaken
		}

		return fmt.Errorf("sqlite: inserting snippet: %w", err)
	}

	snip.ID = id
	snip.CreatedAt = time.Unix(0, now.UnixNano())
	snip.UpdatedAt = snip.CreatedAt

	return nil
}

func (s *SQLiteStore) GetBySlug(ctx context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE slug = ?`, string(slug))

	snip, err := scanSQLiteSnippet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, snippet.ErrNotFound
		}

		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", slug, err)
	}

	return snip, nil
}

func (s *SQLiteStore) UpdateBySlug(
	ctx context.Context, slug snippet.Slug, patch snippet.Patch,
) (*snippet.Snippet, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE snippets SET
			title = COALESCE(?, title),
			code = COALESCE(?, code),
			language = COALESCE(?, language),
			theme = COALESCE(?, theme),
			updated_at = ?
		WHERE slug = ?
		RETURNING `+snippetColumns,
		nullString(patch.Title),
		nullString(patch.Code),
		nullString(patch.Language),
		nullString(patch.Theme),
		s.now().UnixNano(),
		string(slug),
	)

	snip, err := scanSQLiteSnippet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, snippet.ErrNotFound
		}

		return nil, fmt.Errorf("sqlite: updating snippet %s: %w", slug, err)
	}

	return snip, nil
}

func (s *SQLiteStore) DeleteBySlug(ctx context.Context, slug snippet.Slug) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snippets WHERE slug = ?`, string(slug))
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting snippet %s: %w", slug, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *SQLiteStore) List(
	ctx context.Context, filter snippet.Filter, req snippet.PageRequest,
) (*snippet.Page, error) {
	where, args := sqliteDialect.listWhere(filter)

	var total int

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: counting snippets: %w", err)
	}

	query, pageArgs := sqliteDialect.pageQuery(where, args, req)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	items := make([]snippet.Snippet, 0, req.Limit)

	for rows.Next() {
		snip, err := scanSQLiteSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}

		items = append(items, *snip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippet.NewPage(items, total, req), nil
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSnippet(row rowScanner) (*snippet.Snippet, error) {
	var (
		snip               snippet.Snippet
		slug               string
		createdAt, updated int64
	)

	err := row.Scan(
		&snip.ID,
		&slug,
		&snip.Title,
		&snip.Code,
		&snip.Language,
		&snip.Theme,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	snip.Slug = snippet.Slug(slug)
	snip.CreatedAt = time.Unix(0, createdAt)
	snip.UpdatedAt = time.Unix(0, updated)

	return &snip, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *p, Valid: true}
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	default:
		return false
	}
}

// Compile-time check.
var _ snippet.Repository = (*SQLiteStore)(nil)
