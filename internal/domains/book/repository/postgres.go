package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/shared/utils"
	"freewriter/pkg/database"
)

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresRepository{pool: pool}
}

const bookColumns = `
	b.id, b.title, b.author, b.summary, b.cover_image, b.pdf, b.pdf_url, b.slug,
	b.recommended_books, b.fiction_books, b.business_books, b.created_at, b.updated_at`

func scanBook(row pgx.CollectableRow) (model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Summary, &b.CoverImage, &b.PDF, &b.PDFURL, &b.Slug,
		&b.Recommended, &b.Fiction, &b.Business, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// queryBooks - Execute query & collect rows in the order the query returns them
func (r *postgresRepository) queryBooks(ctx context.Context, op, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, fmt.Errorf("%s: collect rows: %w", op, err)
	}
	return books, nil
}

// ============================================
// CATALOG
// ============================================

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	return r.queryBooks(ctx, "list books", `SELECT `+bookColumns+` FROM books b ORDER BY b.id`)
}

func (r *postgresRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN book_categories bc ON bc.book_id = b.id
		WHERE bc.category_id = $1
		ORDER BY b.id`
	return r.queryBooks(ctx, "list books by category", query, categoryID)
}

func (r *postgresRepository) ListByFlag(ctx context.Context, flag model.Flag) ([]model.Book, error) {
	// Column comes from a closed set, never from input.
	query := fmt.Sprintf(`SELECT `+bookColumns+` FROM books b WHERE b.%s ORDER BY b.id`, flag.Column())
	return r.queryBooks(ctx, "list books by flag", query)
}

func (r *postgresRepository) ListFirst(ctx context.Context, limit int) ([]model.Book, error) {
	return r.queryBooks(ctx, "list first books", `SELECT `+bookColumns+` FROM books b ORDER BY b.id LIMIT $1`, limit)
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", slug, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", slug, err)
	}
	return &b, nil
}

func (r *postgresRepository) ListSimilar(ctx context.Context, excludeID int64, prefix string, limit int) ([]model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		WHERE b.id <> $1
		  AND EXISTS (
			SELECT 1 FROM book_categories bc
			JOIN categories c ON c.id = bc.category_id
			WHERE bc.book_id = b.id AND c.name ILIKE $2 ESCAPE '\'
		  )
		ORDER BY b.id
		LIMIT $3`

	pattern := strings.TrimPrefix(utils.ContainsPattern(prefix), "%")
	return r.queryBooks(ctx, "list similar books", query, excludeID, pattern, limit)
}

// ============================================
// SEARCH
// ============================================

// buildSearchWhere - Predicates are AND-combined; each one is a literal, case-insensitive substring match
func buildSearchWhere(filter model.SearchRequest) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Query != "" {
		text := []string{
			fmt.Sprintf(`b.title ILIKE $%d ESCAPE '\'`, argIndex),
			fmt.Sprintf(`b.author ILIKE $%d ESCAPE '\'`, argIndex),
			fmt.Sprintf(`b.summary ILIKE $%d ESCAPE '\'`, argIndex),
		}
		conditions = append(conditions, "("+utils.JoinWithOr(text)+")")
		args = append(args, utils.ContainsPattern(filter.Query))
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM book_categories bc
			JOIN categories c ON c.id = bc.category_id
			WHERE bc.book_id = b.id AND c.name ILIKE $%d ESCAPE '\')`, argIndex))
		args = append(args, utils.ContainsPattern(filter.Category))
		argIndex++
	}

	if filter.Author != "" {
		conditions = append(conditions, fmt.Sprintf(`b.author ILIKE $%d ESCAPE '\'`, argIndex))
		args = append(args, utils.ContainsPattern(filter.Author))
	}

	return utils.JoinWithAnd(conditions), args
}

func (r *postgresRepository) Search(ctx context.Context, filter model.SearchRequest) ([]model.Book, error) {
	where, args := buildSearchWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM books b WHERE %s ORDER BY b.id`, bookColumns, where)
	return r.queryBooks(ctx, "search books", query, args...)
}

func (r *postgresRepository) DistinctAuthors(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT author FROM books ORDER BY author`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	authors, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// ============================================
// WRITE
// ============================================

// Create relies on the unique slug index: ON CONFLICT DO NOTHING returns no row when
// the slug exists, which rolls the transaction back with ErrSlugTaken.
func (r *postgresRepository) Create(ctx context.Context, book *model.Book, categoryIDs []int64) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO books (
				title, author, summary, cover_image, pdf, pdf_url, slug,
				recommended_books, fiction_books, business_books
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (slug) DO NOTHING
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, insert,
			book.Title, book.Author, book.Summary, book.CoverImage, book.PDF, book.PDFURL, book.Slug,
			book.Recommended, book.Fiction, book.Business,
		).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrSlugTaken
		}
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}

		if len(categoryIDs) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO book_categories (book_id, category_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING`,
			book.ID, pq.Array(categoryIDs),
		)
		if err != nil {
			return fmt.Errorf("link book categories: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// ============================================
// MAINTENANCE
// ============================================

func (r *postgresRepository) ListWithoutCover(ctx context.Context) ([]model.Book, error) {
	return r.queryBooks(ctx, "list books without cover",
		`SELECT `+bookColumns+` FROM books b WHERE COALESCE(b.cover_image, '') = '' ORDER BY b.id`)
}

func (r *postgresRepository) ListWithoutPDF(ctx context.Context) ([]model.Book, error) {
	return r.queryBooks(ctx, "list books without pdf",
		`SELECT `+bookColumns+` FROM books b WHERE COALESCE(b.pdf, '') = '' ORDER BY b.id`)
}

func (r *postgresRepository) UpdateCover(ctx context.Context, id int64, key string) error {
	return r.updateColumn(ctx, "cover_image", id, key)
}

func (r *postgresRepository) UpdatePDF(ctx context.Context, id int64, key string) error {
	return r.updateColumn(ctx, "pdf", id, key)
}

func (r *postgresRepository) UpdatePDFURL(ctx context.Context, id int64, url string) error {
	return r.updateColumn(ctx, "pdf_url", id, url)
}

func (r *postgresRepository) updateColumn(ctx context.Context, column string, id int64, value string) error {
	query := fmt.Sprintf(`UPDATE books SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	tag, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update book %d %s: %w", id, column, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) ReferencedCoverKeys(ctx context.Context) ([]string, error) {
	return r.referencedKeys(ctx, "cover_image")
}

func (r *postgresRepository) ReferencedPDFKeys(ctx context.Context) ([]string, error) {
	return r.referencedKeys(ctx, "pdf")
}

func (r *postgresRepository) referencedKeys(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %[1]s FROM books WHERE COALESCE(%[1]s, '') <> '' ORDER BY id`, column)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list referenced %s: %w", column, err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list referenced %s: %w", column, err)
	}
	return keys, nil
}
