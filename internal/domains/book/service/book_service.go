package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/book/repository"
	"freewriter/internal/domains/category"
	reviewModel "freewriter/internal/domains/review/model"
	"freewriter/internal/infrastructure/storage"
	"freewriter/pkg/cache"
)

const (
	homeCacheTTL = 5 * time.Minute
	listCacheTTL = 5 * time.Minute

	similarBooksLimit = 12
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo           repository.BookRepository
	categories     category.CategoryRepository
	reviews        ReviewReader
	cache          cache.Cache
	imageProcessor *storage.ImageProcessor
	blobs          storage.BlobStore
	maxPDFSize     int64
}

// NewService - Constructor with DI. cache may be nil.
func NewService(
	repo repository.BookRepository,
	categories category.CategoryRepository,
	reviews ReviewReader,
	cache cache.Cache,
	imageProcessor *storage.ImageProcessor,
	blobs storage.BlobStore,
) *BookService {
	return &BookService{
		repo:           repo,
		categories:     categories,
		reviews:        reviews,
		cache:          cache,
		imageProcessor: imageProcessor,
		blobs:          blobs,
		maxPDFSize:     storage.DefaultMaxPDFSize,
	}
}

var _ ServiceInterface = (*BookService)(nil)

// ============================================
// HOME
// ============================================

func (s *BookService) Home(ctx context.Context) (*model.HomeResponse, error) {
	var cached model.HomeResponse
	if s.cacheGet(ctx, cache.KeyBooksHome, &cached) {
		return &cached, nil
	}

	home := &model.HomeResponse{}
	sections := []struct {
		flag model.Flag
		dst  *[]model.BookResponse
	}{
		{model.FlagRecommended, &home.Recommended},
		{model.FlagFiction, &home.Fiction},
		{model.FlagBusiness, &home.Business},
	}
	for _, sec := range sections {
		books, err := s.listByFlag(ctx, sec.flag)
		if err != nil {
			return nil, err
		}
		*sec.dst = books
	}

	s.cacheSet(ctx, cache.KeyBooksHome, home, homeCacheTTL)
	return home, nil
}

// ============================================
// LISTS
// ============================================

func (s *BookService) ListAll(ctx context.Context) ([]model.BookResponse, error) {
	var cached []model.BookResponse
	if s.cacheGet(ctx, cache.KeyBooksAll, &cached) {
		return cached, nil
	}

	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	resp, err := s.toResponses(ctx, books)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.KeyBooksAll, resp, listCacheTTL)
	return resp, nil
}

func (s *BookService) ListByCategory(ctx context.Context, slug string) (*model.CategoryBooksResponse, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if errors.Is(err, category.ErrNotFound) {
		return nil, category.NewNotFoundError(slug, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	books, err := s.repo.ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list books by category: %w", err)
	}
	resp, err := s.toResponses(ctx, books)
	if err != nil {
		return nil, err
	}

	return &model.CategoryBooksResponse{
		Category: category.ToResponse(*c),
		Books:    resp,
	}, nil
}

func (s *BookService) ListByFlag(ctx context.Context, flag string) ([]model.BookResponse, error) {
	f, ok := model.ParseFlag(flag)
	if !ok {
		return nil, model.NewInvalidFlagError(flag)
	}
	return s.listByFlag(ctx, f)
}

// listByFlag falls back to the first FlagFallbackLimit books when nothing carries the flag.
func (s *BookService) listByFlag(ctx context.Context, flag model.Flag) ([]model.BookResponse, error) {
	books, err := s.repo.ListByFlag(ctx, flag)
	if err != nil {
		return nil, fmt.Errorf("list %s books: %w", flag, err)
	}

	if len(books) == 0 {
		books, err = s.repo.ListFirst(ctx, model.FlagFallbackLimit)
		if err != nil {
			return nil, fmt.Errorf("list fallback books: %w", err)
		}
	}
	return s.toResponses(ctx, books)
}

func (s *BookService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ============================================
// DETAIL
// ============================================

func (s *BookService) GetDetail(ctx context.Context, slug string) (*model.BookDetailResponse, error) {
	// ========== STEP 1: Book ==========
	b, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewBookNotFoundError(slug, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	books := []model.Book{*b}
	if err := s.attachCategories(ctx, books); err != nil {
		return nil, err
	}
	book := books[0]

	// ========== STEP 2: Similar books (first category name as prefix) ==========
	similar := []model.BookResponse{}
	if len(book.Categories) > 0 {
		found, err := s.repo.ListSimilar(ctx, book.ID, book.Categories[0].Name, similarBooksLimit)
		if err != nil {
			return nil, fmt.Errorf("list similar books: %w", err)
		}
		if similar, err = s.toResponses(ctx, found); err != nil {
			return nil, err
		}
	}

	// ========== STEP 3: Ratings & reviews ==========
	detail := &model.BookDetailResponse{
		Book:         model.ToBookResponse(book, s.resolveURL),
		Reviews:      []reviewModel.ReviewResponse{},
		SimilarBooks: similar,
	}
	if s.reviews != nil {
		summary, err := s.reviews.Summary(ctx, book.ID)
		if err != nil {
			return nil, err
		}
		detail.Rating = *summary

		if detail.Reviews, err = s.reviews.ListReviews(ctx, book.ID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ============================================
// HELPERS
// ============================================

func (s *BookService) attachCategories(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}

	byBook, err := s.categories.ListForBooks(ctx, ids)
	if err != nil {
		return fmt.Errorf("load book categories: %w", err)
	}
	for i := range books {
		books[i].Categories = byBook[books[i].ID]
	}
	return nil
}

func (s *BookService) toResponses(ctx context.Context, books []model.Book) ([]model.BookResponse, error) {
	if err := s.attachCategories(ctx, books); err != nil {
		return nil, err
	}
	return model.ToBookResponses(books, s.resolveURL), nil
}

func (s *BookService) resolveURL(key string) string {
	if s.blobs == nil {
		return ""
	}
	return s.blobs.PublicURL(key)
}

func (s *BookService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache GET error")
		return false
	}
	return found
}

func (s *BookService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache SET error")
	}
}

// InvalidateCatalog drops every cached book listing.
func (s *BookService) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.KeyBooksPattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate book cache")
	}
}
