// Package storage persists collected articles in Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "source", "published", "summary", "summary_short",
	"link", "collected_at", "categorie", "classe", "content_hash", "verifie",
}

// PostgresRepository stores articles with content-hash deduplication.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitSchema creates the articles table when it does not exist.
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS articles (
        id BIGSERIAL PRIMARY KEY,
        title TEXT NOT NULL,
        source TEXT NOT NULL,
        published TEXT NOT NULL,
        summary TEXT NOT NULL DEFAULT '',
        summary_short TEXT NOT NULL DEFAULT '',
        link TEXT NOT NULL DEFAULT '',
        collected_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        categorie TEXT NOT NULL DEFAULT '',
        classe TEXT NOT NULL DEFAULT '',
        content_hash TEXT NOT NULL,
        verifie INT NOT NULL DEFAULT 0,
        CONSTRAINT articles_content_hash_key UNIQUE (content_hash)
    )`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// InsertIfAbsent stores the article unless its content hash is already
// present. It reports whether a new row was inserted; a duplicate is
// not an error.
func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, art domain.Article) (bool, error) {
	query, args, err := psql.Insert("articles").
		Columns("title", "source", "published", "summary", "summary_short",
			"link", "collected_at", "categorie", "classe", "content_hash", "verifie").
		Values(art.Title, art.Source, art.Published, art.Summary, art.SummaryShort,
			art.Link, art.CollectedAt, art.Category, art.Class, art.ContentHash, boolToInt(art.Rejected)).
		Suffix("ON CONFLICT (content_hash) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListNonRejected returns all non-rejected articles, newest first.
func (r *PostgresRepository) ListNonRejected(ctx context.Context) ([]domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"verifie": 0}).
		OrderBy("collected_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.queryArticles(ctx, query, args...)
}

// ListMissingCategory returns stored articles whose category was never
// assigned, oldest first so backfill proceeds in insertion order.
func (r *PostgresRepository) ListMissingCategory(ctx context.Context) ([]domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Or{sq.Eq{"categorie": ""}, sq.Eq{"classe": ""}}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.queryArticles(ctx, query, args...)
}

// UpdateCategoryAndClass sets the classification of one article.
func (r *PostgresRepository) UpdateCategoryAndClass(ctx context.Context, id int64, category, class string) error {
	query, args, err := psql.Update("articles").
		Set("categorie", category).
		Set("classe", class).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// MarkRejected flags one article as rejected so analysis skips it.
func (r *PostgresRepository) MarkRejected(ctx context.Context, id int64) error {
	query, args, err := psql.Update("articles").
		Set("verifie", 1).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark rejected: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryArticles(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	var out []domain.Article
	for rows.Next() {
		var art domain.Article
		var rejected int
		if err := rows.Scan(&art.ID, &art.Title, &art.Source, &art.Published,
			&art.Summary, &art.SummaryShort, &art.Link, &art.CollectedAt,
			&art.Category, &art.Class, &art.ContentHash, &rejected); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		art.Rejected = rejected != 0
		out = append(out, art)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
