package category

import "context"

// ============================================================
// REPOSITORY INTERFACE: CategoryRepository
// ============================================================

type CategoryRepository interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]Category, error)

	// GetBySlug returns ErrNotFound when the slug is unknown.
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// GetByIDs returns the categories that exist among ids (missing ids are skipped).
	GetByIDs(ctx context.Context, ids []int64) ([]Category, error)

	// EnsureBySlug gets or creates the category in a single statement.
	EnsureBySlug(ctx context.Context, slug, name string) (*Category, error)

	// ListForBooks groups the categories of each book, keyed by book id.
	ListForBooks(ctx context.Context, bookIDs []int64) (map[int64][]Category, error)
}
