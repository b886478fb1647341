package repository

import (
	"context"

	"freewriter/internal/domains/book/model"
)

// BookRepository reads and writes books. Categories are not loaded here; the service
// attaches them in one batched query. Lists are ordered by id (insertion order).
type BookRepository interface {
	// ========== CATALOG ==========
	ListAll(ctx context.Context) ([]model.Book, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Book, error)
	ListByFlag(ctx context.Context, flag model.Flag) ([]model.Book, error)
	ListFirst(ctx context.Context, limit int) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)

	// GetBySlug returns model.ErrNotFound when no book matches
	GetBySlug(ctx context.Context, slug string) (*model.Book, error)

	// ListSimilar returns books having a category whose name starts with prefix, excluding excludeID
	ListSimilar(ctx context.Context, excludeID int64, prefix string, limit int) ([]model.Book, error)

	// ========== SEARCH ==========
	Search(ctx context.Context, filter model.SearchRequest) ([]model.Book, error)
	DistinctAuthors(ctx context.Context) ([]string, error)

	// ========== WRITE ==========

	// Create inserts the book and its category links in one transaction.
	// Returns model.ErrSlugTaken (nothing written) when the slug exists.
	Create(ctx context.Context, book *model.Book, categoryIDs []int64) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ========== MAINTENANCE ==========
	ListWithoutCover(ctx context.Context) ([]model.Book, error)
	ListWithoutPDF(ctx context.Context) ([]model.Book, error)
	UpdateCover(ctx context.Context, id int64, key string) error
	UpdatePDF(ctx context.Context, id int64, key string) error
	UpdatePDFURL(ctx context.Context, id int64, url string) error

	// Referenced*Keys list the blob keys currently attached to books
	ReferencedCoverKeys(ctx context.Context) ([]string, error)
	ReferencedPDFKeys(ctx context.Context) ([]string, error)
}
