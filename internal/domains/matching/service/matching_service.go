package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/internal/config"
	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/book/repository"
	"freewriter/internal/domains/category"
	"freewriter/internal/domains/matching"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/shared/utils"
	"freewriter/pkg/cache"
)

// poolLockTTL outlives the worker's task timeout so a crashed run frees its pools on its own.
const poolLockTTL = 45 * time.Minute

// CatalogInvalidator drops cached book listings after a run changed books.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type matchingService struct {
	books      repository.BookRepository
	categories category.CategoryService
	blobs      storage.BlobStore
	images     *storage.ImageProcessor
	catalog    CatalogInvalidator
	locker     cache.Locker
	media      config.MediaConfig
	maxPDFSize int64
}

// NewMatchingService wires the maintenance jobs. catalog may be nil.
func NewMatchingService(
	books repository.BookRepository,
	categories category.CategoryService,
	blobs storage.BlobStore,
	images *storage.ImageProcessor,
	catalog CatalogInvalidator,
	locker cache.Locker,
	media config.MediaConfig,
) matching.Service {
	return &matchingService{
		books:      books,
		categories: categories,
		blobs:      blobs,
		images:     images,
		catalog:    catalog,
		locker:     locker,
		media:      media,
		maxPDFSize: storage.DefaultMaxPDFSize,
	}
}

// lockPools takes every pool of job or none of them.
func (s *matchingService) lockPools(ctx context.Context, job string) (func(), error) {
	var releases []func()
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, pool := range matching.JobPools(job) {
		release, err := s.locker.TryLock(ctx, cache.KeyMaintenanceLockPrefix+pool, poolLockTTL)
		if err != nil {
			releaseAll()
			if errors.Is(err, cache.ErrLocked) {
				return nil, fmt.Errorf("%s: %w: %w", job, matching.ErrJobRunning, err)
			}
			return nil, fmt.Errorf("%s: lock %s pool: %w", job, pool, err)
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// ============================================
// FIX IMAGES
// ============================================

func (s *matchingService) FixImages(ctx context.Context) (*matching.Report, error) {
	unlock, err := s.lockPools(ctx, matching.JobFixImages)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := matching.NewReport(matching.JobFixImages)

	files, err := listMedia(s.media.ImageDir, imageExtensions)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	books, err := s.books.ListWithoutCover(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books without cover: %w", err)
	}
	referenced, err := s.books.ReferencedCoverKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cover keys: %w", err)
	}

	matcher := matching.NewMatcher(matching.AssetImage, files)
	matcher.MarkReferenced(referenced)

	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, report, matcher), err
		}
		report.Processed++

		file, ok := matcher.Match(b.Title)
		if !ok {
			report.Unmatched++
			log.Debug().Int64("book_id", b.ID).Str("title", b.Title).Msg("no image found")
			continue
		}

		key, err := s.uploadCover(ctx, file)
		if err == nil {
			err = s.books.UpdateCover(ctx, b.ID, key)
			if err != nil {
				s.discardBlobs(ctx, []string{key})
			}
		}
		if err != nil {
			matcher.Release(file)
			report.Failed++
			log.Error().Err(err).Int64("book_id", b.ID).Str("file", file).Msg("failed to attach cover")
			continue
		}

		report.Linked++
		log.Info().Int64("book_id", b.ID).Str("file", file).Str("key", key).Msg("cover attached")
	}

	return s.finish(ctx, report, matcher), nil
}

// ============================================
// FIX PDFS
// ============================================

func (s *matchingService) FixPDFs(ctx context.Context) (*matching.Report, error) {
	unlock, err := s.lockPools(ctx, matching.JobFixPDFs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := matching.NewReport(matching.JobFixPDFs)

	files, err := listOptionalMedia(s.media.PDFDir, pdfExtensions)
	if err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	books, err := s.books.ListWithoutPDF(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books without pdf: %w", err)
	}
	referenced, err := s.books.ReferencedPDFKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pdf keys: %w", err)
	}

	matcher := matching.NewMatcher(matching.AssetPDF, files)
	matcher.MarkReferenced(referenced)

	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, report, matcher), err
		}
		report.Processed++

		file, ok := matcher.Match(b.Title)
		if !ok {
			report.Unmatched++
			if b.HasPDFURL() {
				continue
			}
			link := model.FallbackPDFURL(b.Title)
			if err := s.books.UpdatePDFURL(ctx, b.ID, link); err != nil {
				report.Failed++
				log.Error().Err(err).Int64("book_id", b.ID).Msg("failed to set fallback link")
				continue
			}
			report.Fallback++
			continue
		}

		key, err := s.uploadPDF(ctx, file)
		if err == nil {
			err = s.books.UpdatePDF(ctx, b.ID, key)
			if err != nil {
				s.discardBlobs(ctx, []string{key})
			}
		}
		if err != nil {
			matcher.Release(file)
			report.Failed++
			log.Error().Err(err).Int64("book_id", b.ID).Str("file", file).Msg("failed to attach pdf")
			continue
		}

		report.Linked++
		log.Info().Int64("book_id", b.ID).Str("file", file).Str("key", key).Msg("pdf attached")
	}

	return s.finish(ctx, report, matcher), nil
}

// ============================================
// CREATE BOOKS
// ============================================

func (s *matchingService) CreateBooksFromImages(ctx context.Context) (*matching.Report, error) {
	unlock, err := s.lockPools(ctx, matching.JobCreateBooks)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := matching.NewReport(matching.JobCreateBooks)

	// ========== STEP 1: Inputs ==========
	images, err := listMedia(s.media.ImageDir, imageExtensions)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	pdfs, err := listOptionalMedia(s.media.PDFDir, pdfExtensions)
	if err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	referenced, err := s.books.ReferencedPDFKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pdf keys: %w", err)
	}
	pdfMatcher := matching.NewMatcher(matching.AssetPDF, pdfs)
	pdfMatcher.MarkReferenced(referenced)

	// ========== STEP 2: Categories ==========
	categoryIDs := make(map[string]int64, len(matching.DefaultCategories))
	for _, def := range matching.DefaultCategories {
		c, err := s.categories.EnsureCategory(ctx, def.Slug, def.Name)
		if err != nil {
			return nil, fmt.Errorf("ensure category %s: %w", def.Slug, err)
		}
		categoryIDs[def.Slug] = c.ID
	}

	// ========== STEP 3: One book per new image ==========
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, report, pdfMatcher), err
		}
		report.Processed++

		derived := matching.DeriveBook(img)
		slug := utils.GenerateSlug(derived.Title)
		if slug == "" {
			report.Skipped++
			continue
		}
		exists, err := s.books.ExistsBySlug(ctx, slug)
		if err != nil {
			report.Failed++
			log.Error().Err(err).Str("slug", slug).Msg("failed to check slug")
			continue
		}
		if exists {
			report.Skipped++
			log.Debug().Str("file", img).Str("slug", slug).Msg("book already exists")
			continue
		}

		book, err := s.createBook(ctx, img, derived, slug, categoryIDs[derived.Category.Slug], pdfMatcher)
		if errors.Is(err, model.ErrSlugTaken) {
			report.Skipped++
			continue
		}
		if err != nil {
			report.Failed++
			log.Error().Err(err).Str("file", img).Str("slug", slug).Msg("failed to create book")
			continue
		}

		report.Created++
		if book.HasPDF() {
			report.Linked++
		} else {
			report.Fallback++
		}
		log.Info().
			Int64("book_id", book.ID).
			Str("slug", book.Slug).
			Str("category", derived.Category.Name).
			Bool("has_pdf", book.HasPDF()).
			Msg("book created from image")
	}

	return s.finish(ctx, report, pdfMatcher), nil
}

func (s *matchingService) createBook(
	ctx context.Context,
	img string,
	derived matching.DerivedBook,
	slug string,
	categoryID int64,
	pdfs *matching.Matcher,
) (*model.Book, error) {
	book := &model.Book{
		Title:       derived.Title,
		Author:      derived.Author,
		Summary:     derived.Summary,
		Slug:        slug,
		Recommended: derived.Recommended,
		Fiction:     derived.Fiction(),
		Business:    derived.Business(),
	}

	coverKey, err := s.uploadCover(ctx, img)
	if err != nil {
		return nil, err
	}
	uploaded := []string{coverKey}
	book.CoverImage = &coverKey

	pdfFile, paired := pdfs.Pair(img)
	if paired {
		pdfKey, err := s.uploadPDF(ctx, pdfFile)
		if err != nil {
			pdfs.Release(pdfFile)
			paired = false
			log.Warn().Err(err).Str("file", pdfFile).Msg("paired pdf rejected, using fallback link")
		} else {
			uploaded = append(uploaded, pdfKey)
			book.PDF = &pdfKey
		}
	}
	if !book.HasPDF() {
		link := model.FallbackPDFURL(book.Title)
		book.PDFURL = &link
	}

	if err := s.books.Create(ctx, book, []int64{categoryID}); err != nil {
		s.discardBlobs(ctx, uploaded)
		if paired {
			pdfs.Release(pdfFile)
		}
		return nil, err
	}
	return book, nil
}

// ============================================
// HELPERS
// ============================================

func (s *matchingService) uploadCover(ctx context.Context, file string) (string, error) {
	data, err := readMedia(s.media.ImageDir, file)
	if err != nil {
		return "", err
	}
	if err := s.images.ValidateImage(data); err != nil {
		return "", err
	}
	cover, err := s.images.NormalizeCover(data)
	if err != nil {
		return "", err
	}

	key := storage.ObjectKey(storage.PrefixImages, file)
	if _, err := s.blobs.Upload(ctx, key, cover, storage.ContentTypeJPEG); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	return key, nil
}

func (s *matchingService) uploadPDF(ctx context.Context, file string) (string, error) {
	data, err := readMedia(s.media.PDFDir, file)
	if err != nil {
		return "", err
	}
	if err := storage.ValidatePDF(data, s.maxPDFSize); err != nil {
		return "", err
	}

	key := storage.ObjectKey(storage.PrefixPDFs, file)
	if _, err := s.blobs.Upload(ctx, key, data, storage.ContentTypePDF); err != nil {
		return "", fmt.Errorf("upload pdf: %w", err)
	}
	return key, nil
}

func (s *matchingService) discardBlobs(ctx context.Context, keys []string) {
	if err := s.blobs.RemoveObjects(ctx, keys); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("failed to remove orphaned uploads")
	}
}

func (s *matchingService) finish(ctx context.Context, report *matching.Report, m *matching.Matcher) *matching.Report {
	report.Unused = m.Unused()
	if report.Changed() && s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	report.Log()
	return report
}
