package repository

import (
	"context"

	"freewriter/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// SaveRatingAndReview upserts the (user, book) rating and appends the review
	// in one transaction. IDs and timestamps are filled in on success.
	SaveRatingAndReview(ctx context.Context, rating *model.Rating, review *model.Review) error

	// Stats aggregates ratings and reviews of a book
	Stats(ctx context.Context, bookID int64) (*model.RatingStats, error)

	// ListPublic lists public reviews newest first
	ListPublic(ctx context.Context, bookID int64, limit int) ([]model.Review, error)
}
