package service

import (
	"context"
	"fmt"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/category"
)

// Search filters the catalog. An empty request returns every book.
func (s *BookService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	filter := req.Normalize()

	books, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	resp, err := s.toResponses(ctx, books)
	if err != nil {
		return nil, err
	}

	// Facets for the search form
	authors, err := s.repo.DistinctAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &model.SearchResult{
		Query:      filter.Query,
		Category:   filter.Category,
		Author:     filter.Author,
		Books:      resp,
		Authors:    authors,
		Categories: category.ToResponses(categories),
		Total:      len(resp),
	}, nil
}
