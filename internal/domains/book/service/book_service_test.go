package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/book/repository/booktest"
	reviewModel "freewriter/internal/domains/review/model"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/infrastructure/storage/storagetest"
	"freewriter/internal/shared/apperr"
	"freewriter/pkg/cache"
	"freewriter/pkg/cache/cachetest"
)

type fixture struct {
	svc      *BookService
	store    *booktest.Store
	blobs    *storagetest.Memory
	cache    *cachetest.Memory
	fiction  int64
	business int64
	science  int64
}

type stubReviews struct{}

func (stubReviews) Summary(ctx context.Context, bookID int64) (*reviewModel.RatingSummary, error) {
	return &reviewModel.RatingSummary{Average: 4.5, RatingsCount: 2}, nil
}

func (stubReviews) ListReviews(ctx context.Context, bookID int64) ([]reviewModel.ReviewResponse, error) {
	return []reviewModel.ReviewResponse{{ID: 1, Content: "good"}}, nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := booktest.NewStore()
	f := &fixture{
		store:    store,
		blobs:    storagetest.NewMemory(),
		cache:    cachetest.NewMemory(),
		fiction:  store.AddCategory("Fiction", "fiction").ID,
		business: store.AddCategory("Business", "business").ID,
		science:  store.AddCategory("Science", "science").ID,
	}
	f.svc = NewService(store.Books(), store.Categories(), stubReviews{}, f.cache, storage.NewImageProcessor(), f.blobs)
	return f
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ============================================
// CATALOG
// ============================================

func TestListByFlag_FallsBackToFirstSix(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 8; i++ {
		f.store.AddBook(model.Book{Title: "Book", Slug: string(rune('a' + i))})
	}

	books, err := f.svc.ListByFlag(context.Background(), "business")
	require.NoError(t, err)
	require.Len(t, books, model.FlagFallbackLimit)
	assert.Equal(t, int64(1), books[0].ID)
	assert.Equal(t, int64(6), books[5].ID)
}

func TestListByFlag_SmallCatalogAndFlagged(t *testing.T) {
	f := newFixture(t)
	f.store.AddBook(model.Book{Title: "A", Slug: "a"})
	flagged := f.store.AddBook(model.Book{Title: "B", Slug: "b", Fiction: true, Recommended: true}, f.fiction)

	books, err := f.svc.ListByFlag(context.Background(), "fiction")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, flagged.ID, books[0].ID)
	assert.Equal(t, "Fiction", books[0].Categories[0].Name)

	books, err = f.svc.ListByFlag(context.Background(), "business")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	_, err = f.svc.ListByFlag(context.Background(), "poetry")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestHome_IsCachedAndInvalidatedByUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddBook(model.Book{Title: "A", Slug: "a"})

	home, err := f.svc.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home.Recommended, 1)

	found, err := f.cache.Exists(ctx, cache.KeyBooksHome)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = f.svc.Upload(ctx, model.UploadBookRequest{
		Title: "Dune", Author: "Frank Herbert", Summary: "Spice.", CategoryIDs: []int64{f.fiction},
	})
	require.NoError(t, err)

	found, err = f.cache.Exists(ctx, cache.KeyBooksHome)
	require.NoError(t, err)
	assert.False(t, found)

	home, err = f.svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home.Fiction, 1)
	assert.Equal(t, "Dune", home.Fiction[0].Title)
}

func TestListByCategory(t *testing.T) {
	f := newFixture(t)
	f.store.AddBook(model.Book{Title: "A", Slug: "a"}, f.science)
	f.store.AddBook(model.Book{Title: "B", Slug: "b"}, f.fiction)

	resp, err := f.svc.ListByCategory(context.Background(), "science")
	require.NoError(t, err)
	assert.Equal(t, "fas fa-flask", resp.Category.Icon)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "A", resp.Books[0].Title)

	_, err = f.svc.ListByCategory(context.Background(), "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetDetail(t *testing.T) {
	f := newFixture(t)
	sciFi := f.store.AddCategory("Science Fiction", "science-fiction").ID
	book := f.store.AddBook(model.Book{Title: "A", Slug: "a"}, f.science)
	f.store.AddBook(model.Book{Title: "B", Slug: "b"}, sciFi)
	f.store.AddBook(model.Book{Title: "C", Slug: "c"}, f.fiction)

	detail, err := f.svc.GetDetail(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, book.ID, detail.Book.ID)
	require.Len(t, detail.SimilarBooks, 1)
	assert.Equal(t, "B", detail.SimilarBooks[0].Title)
	assert.Equal(t, 4.5, detail.Rating.Average)
	assert.Len(t, detail.Reviews, 1)

	_, err = f.svc.GetDetail(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// ============================================
// SEARCH
// ============================================

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.store.AddBook(model.Book{Title: "A Random Walk Down Wall Street", Author: "Burton Malkiel", Summary: "Index funds.", Slug: "a"}, f.business)
	f.store.AddBook(model.Book{Title: "Oliver Twist", Author: "Charles Dickens", Summary: "An orphan walks to London.", Slug: "b"}, f.fiction)
	f.store.AddBook(model.Book{Title: "100% Hacking", Author: "Anon", Summary: "Shells.", Slug: "c"}, f.science)

	tests := []struct {
		name string
		req  model.SearchRequest
		want []string
	}{
		{"empty matches all", model.SearchRequest{}, []string{"a", "b", "c"}},
		{"title or summary", model.SearchRequest{Query: "WALK"}, []string{"a", "b"}},
		{"legacy field", model.SearchRequest{NameOfBook: " oliver "}, []string{"b"}},
		{"author", model.SearchRequest{Query: "dickens"}, []string{"b"}},
		{"and-combined", model.SearchRequest{Query: "walk", Category: "fict"}, []string{"b"}},
		{"author filter", model.SearchRequest{Author: "malkiel"}, []string{"a"}},
		{"literal percent", model.SearchRequest{Query: "100%"}, []string{"c"}},
		{"no match", model.SearchRequest{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Search(context.Background(), tt.req)
			require.NoError(t, err)

			slugs := []string{}
			for _, b := range res.Books {
				slugs = append(slugs, b.Slug)
			}
			assert.Equal(t, tt.want, slugs)
			assert.Equal(t, len(tt.want), res.Total)
			assert.Equal(t, []string{"Anon", "Burton Malkiel", "Charles Dickens"}, res.Authors)
			assert.Len(t, res.Categories, 3)
		})
	}
}

// ============================================
// UPLOAD
// ============================================

func TestUpload_WithoutFilesGetsFallbackLink(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Upload(context.Background(), model.UploadBookRequest{
		Title:       "Oliver Twist: (Annotated)",
		Author:      "Charles Dickens",
		Summary:     "An orphan.",
		CategoryIDs: []int64{f.fiction, f.business},
	})
	require.NoError(t, err)

	assert.Equal(t, "oliver-twist-annotated", resp.Slug)
	assert.Equal(t, "https://www.welib.org/search?q=Oliver%20Twist%20Annotated", resp.PDFURL)
	assert.False(t, resp.HasPDF)
	assert.True(t, resp.Recommended)
	assert.True(t, resp.Fiction)
	assert.True(t, resp.Business)
	assert.ElementsMatch(t, []int64{f.fiction, f.business}, f.store.Links(resp.ID))
	assert.Empty(t, f.blobs.Keys())
}

func TestUpload_StoresCoverAndPDF(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Upload(context.Background(), model.UploadBookRequest{
		Title:       "Linux Basics",
		Author:      "OccupyTheWeb",
		Summary:     "Shell.",
		CategoryIDs: []int64{f.science},
		Cover:       &model.FileUpload{Filename: "linux cover.png", Data: pngBytes(t, 20, 30)},
		PDF:         &model.FileUpload{Filename: "linux.pdf", Data: []byte("%PDF-1.4 body")},
	})
	require.NoError(t, err)

	keys := f.blobs.Keys()
	require.Len(t, keys, 2)
	assert.True(t, strings.HasPrefix(keys[0], "img/"))
	assert.True(t, strings.HasSuffix(keys[0], "-linux_cover.png"))
	assert.Equal(t, storage.ContentTypeJPEG, f.blobs.ContentType(keys[0]))
	assert.True(t, strings.HasPrefix(keys[1], "pdf/"))

	assert.True(t, resp.HasPDF)
	assert.Equal(t, "http://blobs.test/"+keys[1], resp.PDFURL)
	assert.Equal(t, "http://blobs.test/"+keys[0], resp.CoverURL)
	assert.False(t, resp.Recommended)

	stored, ok := f.store.Book(resp.ID)
	require.True(t, ok)
	assert.Nil(t, stored.PDFURL)
}

func TestUpload_DuplicateSlugIsConflictAndCleansUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := model.UploadBookRequest{Title: "A Random, Walk!", Author: "B. Malkiel", Summary: "S", CategoryIDs: []int64{f.business}}

	first, err := f.svc.Upload(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "a-random-walk", first.Slug)

	req.Title = "A random walk"
	req.Cover = &model.FileUpload{Filename: "c.png", Data: pngBytes(t, 4, 4)}
	_, err = f.svc.Upload(ctx, req)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, model.ErrCodeDuplicateSlug, appErr.Code)
	assert.Equal(t, 1, f.store.Len())
	assert.Empty(t, f.blobs.Keys())
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := model.UploadBookRequest{Title: "T", Author: "A", Summary: "S", CategoryIDs: []int64{f.fiction}}

	tests := []struct {
		name   string
		mutate func(r *model.UploadBookRequest)
		code   string
	}{
		{"missing title", func(r *model.UploadBookRequest) { r.Title = "  " }, model.ErrCodeValidation},
		{"no categories", func(r *model.UploadBookRequest) { r.CategoryIDs = nil }, model.ErrCodeValidation},
		{"unknown category", func(r *model.UploadBookRequest) { r.CategoryIDs = []int64{f.fiction, 99} }, model.ErrCodeInvalidCategory},
		{"title without slug", func(r *model.UploadBookRequest) { r.Title = "!!!" }, model.ErrCodeInvalidSlugTitle},
		{"not an image", func(r *model.UploadBookRequest) {
			r.Cover = &model.FileUpload{Filename: "x.png", Data: []byte("nope")}
		}, model.ErrCodeInvalidFile},
		{"not a pdf", func(r *model.UploadBookRequest) {
			r.PDF = &model.FileUpload{Filename: "x.pdf", Data: []byte("<html>")}
		}, model.ErrCodeInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.CategoryIDs = append([]int64(nil), base.CategoryIDs...)
			tt.mutate(&req)

			_, err := f.svc.Upload(ctx, req)
			appErr, ok := apperr.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
	assert.Zero(t, f.store.Len())
}

func TestUpload_BlobFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.blobs.UploadErr = errors.New("minio down")

	_, err := f.svc.Upload(context.Background(), model.UploadBookRequest{
		Title: "T", Author: "A", Summary: "S", CategoryIDs: []int64{f.fiction},
		PDF: &model.FileUpload{Filename: "x.pdf", Data: []byte("%PDF-1.4")},
	})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Zero(t, f.store.Len())
}

// ============================================
// EXPORT
// ============================================

func TestExportCatalog(t *testing.T) {
	f := newFixture(t)
	f.store.AddBook(model.Book{Title: "Oliver Twist", Author: "Charles Dickens", Slug: "oliver-twist"}, f.fiction, f.science)

	data, err := f.svc.ExportCatalog(context.Background())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Oliver Twist", rows[1][1])
	assert.Equal(t, "Fiction, Science", rows[1][4])
}
