package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freewriter/internal/domains/review/model"
	"freewriter/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// =====================================================
// SAVE
// =====================================================

func (r *postgresReviewRepository) SaveRatingAndReview(
	ctx context.Context,
	rating *model.Rating,
	review *model.Review,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// One statement against the unique (user_id, book_id) index: no read-then-write race.
		upsert := `
			INSERT INTO book_ratings (user_id, book_id, rating, review)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT ON CONSTRAINT book_ratings_user_book_key DO UPDATE
			SET rating = EXCLUDED.rating,
			    review = EXCLUDED.review,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(ctx, upsert, rating.UserID, rating.BookID, rating.Rating, rating.Review).
			Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert rating: %w", err)
		}

		insert := `
			INSERT INTO book_reviews (user_id, book_id, title, content, is_public)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRow(ctx, insert, review.UserID, review.BookID, review.Title, review.Content, review.IsPublic).
			Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert review: %w", err)
		}
		return nil
	})
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresReviewRepository) Stats(ctx context.Context, bookID int64) (*model.RatingStats, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(rating) FROM book_ratings WHERE book_id = $1), 0),
			(SELECT COUNT(*) FROM book_ratings WHERE book_id = $1),
			(SELECT COUNT(*) FROM book_reviews WHERE book_id = $1)
	`

	stats := &model.RatingStats{}
	if err := r.pool.QueryRow(ctx, query, bookID).Scan(&stats.Sum, &stats.RatingsCount, &stats.ReviewsCount); err != nil {
		return nil, fmt.Errorf("failed to get rating stats: %w", err)
	}
	return stats, nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresReviewRepository) ListPublic(ctx context.Context, bookID int64, limit int) ([]model.Review, error) {
	query := `
		SELECT rv.id, rv.user_id, u.username, rv.book_id, rv.title, rv.content,
		       rv.is_public, rv.created_at, rv.updated_at
		FROM book_reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = $1 AND rv.is_public
		ORDER BY rv.created_at DESC, rv.id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, bookID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.Username, &rv.BookID, &rv.Title, &rv.Content,
			&rv.IsPublic, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
