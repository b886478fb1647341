package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"freewriter/internal/domains/category"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) category.CategoryRepository {
	return &postgresRepository{pool: pool}
}

const selectColumns = `id, name, slug, description`

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM categories WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}
	return c, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []int64) ([]category.Category, error) {
	if len(ids) == 0 {
		return []category.Category{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM categories WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("get categories by ids: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

// EnsureBySlug relies on the unique slug index: the no-op DO UPDATE makes RETURNING
// yield the existing row too, so concurrent callers all get the same category.
func (r *postgresRepository) EnsureBySlug(ctx context.Context, slug, name string) (*category.Category, error) {
	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING ` + selectColumns

	c, err := scanCategory(r.pool.QueryRow(ctx, query, name, slug))
	if err != nil {
		return nil, fmt.Errorf("ensure category %s: %w", slug, err)
	}
	return c, nil
}

func (r *postgresRepository) ListForBooks(ctx context.Context, bookIDs []int64) (map[int64][]category.Category, error) {
	result := make(map[int64][]category.Category, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT bc.book_id, c.id, c.name, c.slug, c.description
		FROM book_categories bc
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.book_id = ANY($1)
		ORDER BY bc.book_id, c.name`,
		pq.Array(bookIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("list categories for books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var c category.Category
		if err := rows.Scan(&bookID, &c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("scan book category: %w", err)
		}
		result[bookID] = append(result[bookID], c)
	}
	return result, rows.Err()
}

func collect(rows pgx.Rows) ([]category.Category, error) {
	categories := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}
