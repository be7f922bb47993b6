package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/serroba/duckbin/internal/snippet"
	"golang.org/x/sync/errgroup"
)

const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snippets (
	id         TEXT PRIMARY KEY,
	slug       VARCHAR(7) NOT NULL,
	title      VARCHAR(100) NOT NULL,
	code       TEXT NOT NULL,
	language   TEXT NOT NULL,
	theme      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_snippets_slug ON snippets (slug);
CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets (language);
CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets (created_at DESC, id DESC);
`

// PostgresStore is a PostgreSQL implementation of snippet.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed snippet store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the snippets table and its indexes if missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres: creating schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) SlugExists(ctx context.Context, slug snippet.Slug) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM snippets WHERE slug = $1)`, string(slug),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking slug: %w", err)
	}

	return exists, nil
}

func (p *PostgresStore) Insert(ctx context.Context, snip *snippet.Snippet) error {
	query := `
		INSERT INTO snippets (id, slug, title, code, language, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING ` + snippetColumns

	row := p.pool.QueryRow(ctx, query,
		xid.New().String(),
		string(snip.Slug),
		snip.Title,
		snip.Code,
		snip.Language,
		snip.Theme,
	)

	stored, err := scanPostgresSnippet(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return snippet.ErrSlugTaken
		}

		return fmt.Errorf("postgres: inserting snippet: %w", err)
	}

	*snip = *stored

	return nil
}

func (p *PostgresStore) GetBySlug(ctx context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE slug = $1`, string(slug))

	snip, err := scanPostgresSnippet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, snippet.ErrNotFound
		}

		return nil, fmt.Errorf("postgres: getting snippet %s: %w", slug, err)
	}

	return snip, nil
}

func (p *PostgresStore) UpdateBySlug(
	ctx context.Context, slug snippet.Slug, patch snippet.Patch,
) (*snippet.Snippet, error) {
	query := `
		UPDATE snippets SET
			title = COALESCE($1, title),
			code = COALESCE($2, code),
			language = COALESCE($3, language),
			theme = COALESCE($4, theme),
			updated_at = now()
		WHERE slug = $5
		RETURNING ` + snippetColumns

	row := p.pool.QueryRow(ctx, query,
		patch.Title,
		patch.Code,
		patch.Language,
		patch.Theme,
		string(slug),
	)

	snip, err := scanPostgresSnippet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, snippet.ErrNotFound
		}

		return nil, fmt.Errorf("postgres: updating snippet %s: %w", slug, err)
	}

	return snip, nil
}

func (p *PostgresStore) DeleteBySlug(ctx context.Context, slug snippet.Slug) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM snippets WHERE slug = $1`, string(slug))
	if err != nil {
		return false, fmt.Errorf("postgres: deleting snippet %s: %w", slug, err)
	}

	return tag.RowsAffected() > 0, nil
}

// List runs the count and the page query concurrently.
func (p *PostgresStore) List(
	ctx context.Context, filter snippet.Filter, req snippet.PageRequest,
) (*snippet.Page, error) {
	where, args := postgresDialect.listWhere(filter)

	var (
		total int
		items []snippet.Snippet
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := p.pool.QueryRow(gctx, `SELECT COUNT(*) FROM snippets`+where, args...).Scan(&total)
		if err != nil {
			return fmt.Errorf("postgres: counting snippets: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		query, pageArgs := postgresDialect.pageQuery(where, args, req)

		rows, err := p.pool.Query(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("postgres: listing snippets: %w", err)
		}

		items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (snippet.Snippet, error) {
			snip, err := scanPostgresSnippet(row)
			if err != nil {
				return snippet.Snippet{}, err
			}

			return *snip, nil
		})
		if err != nil {
			return fmt.Errorf("postgres: scanning snippets: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snippet.NewPage(items, total, req), nil
}

// Ping reports whether the database is reachable.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanPostgresSnippet(row pgx.Row) (*snippet.Snippet, error) {
	var (
		snip snippet.Snippet
		slug string
	)

	err := row.Scan(
		&snip.ID,
		&slug,
		&snip.Title,
		&snip.Code,
		&snip.Language,
		&snip.Theme,
		&snip.CreatedAt,
		&snip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snip.Slug = snippet.Slug(slug)

	return &snip, nil
}

// Compile-time check.
var _ snippet.Repository = (*PostgresStore)(nil)
