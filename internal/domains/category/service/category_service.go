package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/category"
	"freewriter/internal/shared/utils"
	"freewriter/pkg/cache"
)

const listCacheTTL = 10 * time.Minute

type categoryServiceImpl struct {
	repository category.CategoryRepository
	cache      cache.Cache
}

// NewCategoryService builds the service; c may be nil (no caching).
func NewCategoryService(repo category.CategoryRepository, c cache.Cache) category.CategoryService {
	return &categoryServiceImpl{
		repository: repo,
		cache:      c,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]category.CategoryResp, error) {
	// ========== STEP 1: Cache ==========
	if s.cache != nil {
		var cached []category.CategoryResp
		found, err := s.cache.Get(ctx, cache.KeyCategoriesList, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("category list cache read failed")
		} else if found {
			return cached, nil
		}
	}

	// ========== STEP 2: Database ==========
	categories, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	resp := category.ToResponses(categories)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.KeyCategoriesList, resp, listCacheTTL); err != nil {
			log.Warn().Err(err).Msg("category list cache write failed")
		}
	}
	return resp, nil
}

func (s *categoryServiceImpl) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, category.NewInvalidCategoryError("category slug is required")
	}

	c, err := s.repository.GetBySlug(ctx, slug)
	if errors.Is(err, category.ErrNotFound) {
		return nil, category.NewNotFoundError(slug, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *categoryServiceImpl) EnsureCategory(ctx context.Context, slug, name string) (*category.Category, error) {
	name = strings.TrimSpace(name)
	if slug == "" {
		slug = utils.GenerateSlug(name)
	}
	if slug == "" || name == "" {
		return nil, category.NewInvalidCategoryError("category name is required")
	}

	c, err := s.repository.EnsureBySlug(ctx, slug, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.KeyCategoriesList); err != nil {
			log.Warn().Err(err).Msg("category list cache invalidation failed")
		}
	}
	return c, nil
}
