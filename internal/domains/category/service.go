package category

import "context"

// ============================================================
// SERVICE INTERFACE: CategoryService
// ============================================================

type CategoryService interface {
	// ListCategories returns all categories with icons (cached).
	ListCategories(ctx context.Context) ([]CategoryResp, error)

	// GetBySlug returns a NotFound application error for unknown slugs.
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// EnsureCategory is the maintenance get-or-create.
	EnsureCategory(ctx context.Context, slug, name string) (*Category, error)
}
