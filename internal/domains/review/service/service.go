package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookModel "freewriter/internal/domains/book/model"
	"freewriter/internal/domains/review/model"
	"freewriter/internal/domains/review/repository"
	"freewriter/internal/shared/apperr"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	books      BookLookup
}

func NewReviewService(reviewRepo repository.ReviewRepository, books BookLookup) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		books:      books,
	}
}

// =====================================================
// ADD REVIEW
// =====================================================

func (s *reviewService) AddReview(
	ctx context.Context,
	userID uuid.UUID,
	bookSlug string,
	req model.AddReviewRequest,
) (*model.AddReviewResponse, error) {
	if userID == uuid.Nil {
		return nil, model.NewUnauthorizedError()
	}

	// Step 1: Validate request
	req.Normalize()
	if err := apperr.FromValidation(model.ErrCodeValidation, req.Validate()); err != nil {
		return nil, err
	}

	// Step 2: Resolve book
	book, err := s.books.GetBySlug(ctx, bookSlug)
	if err != nil {
		if errors.Is(err, bookModel.ErrNotFound) {
			return nil, bookModel.NewBookNotFoundError(bookSlug, err)
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	// Step 3: Upsert rating + append review
	rating := &model.Rating{
		UserID: userID,
		BookID: book.ID,
		Rating: req.Rating,
		Review: req.Content,
	}
	review := &model.Review{
		UserID:   userID,
		BookID:   book.ID,
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.Public(),
	}
	if err := s.reviewRepo.SaveRatingAndReview(ctx, rating, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("book_id", book.ID).
		Int("rating", rating.Rating).
		Msg("review added")

	// Step 4: Refreshed summary
	summary, err := s.Summary(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	return &model.AddReviewResponse{
		Review:     model.ToReviewResponse(*review),
		UserRating: rating.Rating,
		Summary:    *summary,
	}, nil
}

// =====================================================
// READS
// =====================================================

func (s *reviewService) Summary(ctx context.Context, bookID int64) (*model.RatingSummary, error) {
	stats, err := s.reviewRepo.Stats(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}
	summary := stats.Summary()
	return &summary, nil
}

func (s *reviewService) ListReviews(ctx context.Context, bookID int64) ([]model.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListPublic(ctx, bookID, model.DetailReviewLimit)
	if err != nil {
		return nil, err
	}
	return model.ToReviewResponses(reviews), nil
}
