// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"autoparc/internal/filter"
	"autoparc/internal/models"
)

const newsColumns = `n.id, n.title, n.slug, n.excerpt, n.content, n.image, n.category,
	n.author_id, n.views, n.is_published, n.created_at, n.updated_at`

// NewsStore handles all article database operations.
type NewsStore struct {
	db DBTX
}

// NewNewsStore creates a new NewsStore with the given database handle.
func NewNewsStore(db DBTX) *NewsStore {
	return &NewsStore{db: db}
}

func scanNews(row rowScanner) (*models.News, error) {
	n := &models.News{}
	var author uuid.NullUUID
	err := row.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.Image, &n.Category,
		&author, &n.Views, &n.IsPublished, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		n.AuthorID = &author.UUID
	}
	return n, nil
}

func (s *NewsStore) findOne(ctx context.Context, op, query string, args ...any) (*models.News, error) {
	n, err := scanNews(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// List returns one page of articles matching f, newest first.
func (s *NewsStore) List(ctx context.Context, f filter.NewsFilter, p filter.Page) (filter.Result[models.News], error) {
	q := f.Build()

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news n`+q.Where(), q.Args()...).Scan(&total)
	if err != nil {
		return filter.Result[models.News]{}, fmt.Errorf("count news: %w", err)
	}

	limit, args := q.Limit(p)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news n`+q.Where()+` ORDER BY n.created_at DESC, n.id`+limit, args...)
	if err != nil {
		return filter.Result[models.News]{}, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	items := []models.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return filter.Result[models.News]{}, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return filter.Result[models.News]{}, fmt.Errorf("list news: %w", err)
	}
	return filter.NewResult(items, p, total), nil
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *NewsStore) FindByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	return s.findOne(ctx, "find news by id", `SELECT `+newsColumns+` FROM news n WHERE n.id = $1`, id)
}

// ViewBySlug increments the view counter of the article with slug in a
// single statement and returns the updated article. Returns nil if not found.
func (s *NewsStore) ViewBySlug(ctx context.Context, slug string) (*models.News, error) {
	return s.findOne(ctx, "view news by slug", `
		UPDATE news n SET views = n.views + 1
		WHERE n.slug = $1
		RETURNING `+newsColumns, slug)
}

// Create inserts n and fills in its id, counters and timestamps. A taken
// slug yields ErrDuplicate.
func (s *NewsStore) Create(ctx context.Context, n *models.News) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news (title, slug, excerpt, content, image, category, author_id, is_published)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'Nouveautés'), $7, $8)
		RETURNING id, category, views, created_at, updated_at
	`, n.Title, n.Slug, n.Excerpt, n.Content, n.Image, n.Category, n.AuthorID, n.IsPublished,
	).Scan(&n.ID, &n.Category, &n.Views, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return translate("create news", err)
	}
	return nil
}

// Update persists the editable fields of n. The slug is kept as created.
func (s *NewsStore) Update(ctx context.Context, n *models.News) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE news SET
			title = $1, excerpt = $2, content = $3, image = $4, category = $5,
			is_published = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, n.Title, n.Excerpt, n.Content, n.Image, n.Category, n.IsPublished, n.ID).Scan(&n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes an article by ID.
func (s *NewsStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
