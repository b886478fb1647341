package service

import (
	"context"

	"freewriter/internal/domains/book/model"
	reviewModel "freewriter/internal/domains/review/model"
)

// ServiceInterface - Business logic of the catalog, search, upload and export
type ServiceInterface interface {
	Home(ctx context.Context) (*model.HomeResponse, error)
	ListAll(ctx context.Context) ([]model.BookResponse, error)
	ListByCategory(ctx context.Context, slug string) (*model.CategoryBooksResponse, error)
	ListByFlag(ctx context.Context, flag string) ([]model.BookResponse, error)
	GetDetail(ctx context.Context, slug string) (*model.BookDetailResponse, error)
	Count(ctx context.Context) (int64, error)

	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error)

	UploadForm(ctx context.Context) (*model.UploadFormResponse, error)
	Upload(ctx context.Context, req model.UploadBookRequest) (*model.BookResponse, error)

	// ExportCatalog returns an xlsx workbook with one row per book
	ExportCatalog(ctx context.Context) ([]byte, error)
}

// ReviewReader is the part of the review domain the detail page needs.
type ReviewReader interface {
	Summary(ctx context.Context, bookID int64) (*reviewModel.RatingSummary, error)
	ListReviews(ctx context.Context, bookID int64) ([]reviewModel.ReviewResponse, error)
}
