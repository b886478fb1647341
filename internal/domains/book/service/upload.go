package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/category"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/shared/apperr"
	"freewriter/internal/shared/utils"
)

func (s *BookService) UploadForm(ctx context.Context) (*model.UploadFormResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &model.UploadFormResponse{
		Categories:    category.ToResponses(categories),
		MaxImageBytes: s.imageProcessor.MaxSize,
		MaxPDFBytes:   s.maxPDFSize,
		ImageFormats:  []string{"jpeg", "png", "gif"},
	}, nil
}

// Upload creates a book from the upload form. The slug is derived from the title and
// must be new; a taken slug is a Conflict and leaves nothing behind.
func (s *BookService) Upload(ctx context.Context, req model.UploadBookRequest) (*model.BookResponse, error) {
	// ========== STEP 1: Validate fields ==========
	req.Normalize()
	if err := apperr.FromValidation(model.ErrCodeValidation, req.Validate()); err != nil {
		return nil, err
	}

	slug := utils.GenerateSlug(req.Title)
	if slug == "" {
		return nil, apperr.Validation(model.ErrCodeInvalidSlugTitle, "title must contain at least one letter or digit").
			WithDetails(map[string]string{"title": "cannot produce a slug"})
	}

	// ========== STEP 2: Categories must all exist ==========
	categories, err := s.categories.GetByIDs(ctx, req.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(categories) != len(req.CategoryIDs) {
		return nil, apperr.Validation(model.ErrCodeInvalidCategory, "unknown category selected").
			WithDetails(map[string]string{"category": "select valid categories"})
	}

	// ========== STEP 3: Validate files ==========
	var cover []byte
	if req.Cover != nil && len(req.Cover.Data) > 0 {
		if err := s.imageProcessor.ValidateImage(req.Cover.Data); err != nil {
			return nil, model.NewInvalidFileError("cover_image", err.Error())
		}
		if cover, err = s.imageProcessor.NormalizeCover(req.Cover.Data); err != nil {
			return nil, model.NewInvalidFileError("cover_image", err.Error())
		}
	}
	hasPDF := req.PDF != nil && len(req.PDF.Data) > 0
	if hasPDF {
		if err := storage.ValidatePDF(req.PDF.Data, s.maxPDFSize); err != nil {
			return nil, model.NewInvalidFileError("pdf", err.Error())
		}
	}

	// ========== STEP 4: Build entity ==========
	flags := model.ClassifyFlags(category.Names(categories))
	book := &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		Summary:     req.Summary,
		Slug:        slug,
		Recommended: flags.Recommended,
		Fiction:     flags.Fiction,
		Business:    flags.Business,
		Categories:  categories,
	}
	if !hasPDF {
		link := model.FallbackPDFURL(req.Title)
		book.PDFURL = &link
	}

	// ========== STEP 5: Upload blobs ==========
	var uploaded []string
	if cover != nil {
		key := storage.ObjectKey(storage.PrefixImages, req.Cover.Filename)
		if _, err := s.blobs.Upload(ctx, key, cover, storage.ContentTypeJPEG); err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		uploaded = append(uploaded, key)
		book.CoverImage = &key
	}
	if hasPDF {
		key := storage.ObjectKey(storage.PrefixPDFs, req.PDF.Filename)
		if _, err := s.blobs.Upload(ctx, key, req.PDF.Data, storage.ContentTypePDF); err != nil {
			s.discardBlobs(ctx, uploaded)
			return nil, fmt.Errorf("upload pdf: %w", err)
		}
		uploaded = append(uploaded, key)
		book.PDF = &key
	}

	// ========== STEP 6: Persist ==========
	if err := s.repo.Create(ctx, book, req.CategoryIDs); err != nil {
		s.discardBlobs(ctx, uploaded)
		if errors.Is(err, model.ErrSlugTaken) {
			return nil, model.NewDuplicateSlugError(slug)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.InvalidateCatalog(ctx)

	log.Info().
		Int64("book_id", book.ID).
		Str("slug", book.Slug).
		Bool("has_pdf", book.HasPDF()).
		Bool("has_cover", book.HasCover()).
		Msg("book uploaded")

	resp := model.ToBookResponse(*book, s.resolveURL)
	return &resp, nil
}

// discardBlobs removes objects uploaded for a book that was not saved.
func (s *BookService) discardBlobs(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.blobs.RemoveObjects(ctx, keys); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("failed to remove orphaned uploads")
	}
}
