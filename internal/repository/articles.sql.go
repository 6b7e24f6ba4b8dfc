// source: articles.sql

package repository

import (
	"context"
	"database/sql"
	"time"
)

const countArticles = `-- name: CountArticles :one
SELECT COUNT(*) FROM articles
`

func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticles)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listArticles = `-- name: ListArticles :many
SELECT id, title, summary, url, image_url, published_at, created_at FROM articles
ORDER BY published_at DESC, id
LIMIT $1 OFFSET $2
`

type ListArticlesParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx, listArticles, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Article
	for rows.Next() {
		var i Article
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Summary,
			&i.Url,
			&i.ImageUrl,
			&i.PublishedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertArticle = `-- name: UpsertArticle :one
INSERT INTO articles (title, summary, url, image_url, published_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (url) DO UPDATE SET
    title = EXCLUDED.title,
    summary = EXCLUDED.summary,
    image_url = EXCLUDED.image_url,
    published_at = EXCLUDED.published_at
RETURNING id, title, summary, url, image_url, published_at, created_at
`

type UpsertArticleParams struct {
	Title       string         `json:"title"`
	Summary     sql.NullString `json:"summary"`
	Url         string         `json:"url"`
	ImageUrl    sql.NullString `json:"image_url"`
	PublishedAt time.Time      `json:"published_at"`
}

func (q *Queries) UpsertArticle(ctx context.Context, arg UpsertArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, upsertArticle,
		arg.Title,
		arg.Summary,
		arg.Url,
		arg.ImageUrl,
		arg.PublishedAt,
	)
	var i Article
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Summary,
		&i.Url,
		&i.ImageUrl,
		&i.PublishedAt,
		&i.CreatedAt,
	)
	return i, err
}
