package service

import (
	"context"

	"github.com/google/uuid"

	bookModel "freewriter/internal/domains/book/model"
	"freewriter/internal/domains/review/model"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// AddReview records the caller's rating (replacing an earlier one) and appends a review
	AddReview(ctx context.Context, userID uuid.UUID, bookSlug string, req model.AddReviewRequest) (*model.AddReviewResponse, error)

	// Summary returns average rating and counts for a book
	Summary(ctx context.Context, bookID int64) (*model.RatingSummary, error)

	// ListReviews lists public reviews newest first
	ListReviews(ctx context.Context, bookID int64) ([]model.ReviewResponse, error)
}

// BookLookup resolves the reviewed book.
type BookLookup interface {
	GetBySlug(ctx context.Context, slug string) (*bookModel.Book, error)
}
