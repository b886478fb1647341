package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/category"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Home(ctx context.Context) (*model.HomeResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(*model.HomeResponse), args.Error(1)
}

func (m *mockService) ListAll(ctx context.Context) ([]model.BookResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.BookResponse), args.Error(1)
}

func (m *mockService) ListByCategory(ctx context.Context, slug string) (*model.CategoryBooksResponse, error) {
	args := m.Called(ctx, slug)
	if r := args.Get(0); r != nil {
		return r.(*model.CategoryBooksResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ListByFlag(ctx context.Context, flag string) ([]model.BookResponse, error) {
	args := m.Called(ctx, flag)
	return args.Get(0).([]model.BookResponse), args.Error(1)
}

func (m *mockService) GetDetail(ctx context.Context, slug string) (*model.BookDetailResponse, error) {
	args := m.Called(ctx, slug)
	if r := args.Get(0); r != nil {
		return r.(*model.BookDetailResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*model.SearchResult), args.Error(1)
}

func (m *mockService) UploadForm(ctx context.Context) (*model.UploadFormResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(*model.UploadFormResponse), args.Error(1)
}

func (m *mockService) Upload(ctx context.Context, req model.UploadBookRequest) (*model.BookResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*model.BookResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ExportCatalog(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	return args.Get(0).([]byte), args.Error(1)
}

func newRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/genre/:slug/", h.ListByCategory)
	r.GET("/book/:slug/", h.GetDetail)
	r.GET("/search/", h.Search)
	r.POST("/search/", h.Search)
	r.POST("/upload/", h.Upload)
	r.GET("/export/books/", h.ExportCatalog)
	return r
}

func TestSearch_AcceptsQueryFormAndJSON(t *testing.T) {
	svc := new(mockService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(req model.SearchRequest) bool {
		n := req.Normalize()
		return n.Query == "oliver" && n.Author == "dickens"
	})).Return(&model.SearchResult{Query: "oliver", Total: 1}, nil)
	r := newRouter(svc)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/search/?q=oliver&author=dickens", nil),
		func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/search/", strings.NewReader("name_of_book=oliver&author=dickens"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return req
		}(),
		func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/search/", strings.NewReader(`{"q":"oliver","author":"dickens"}`))
			req.Header.Set("Content-Type", "application/json")
			return req
		}(),
	}

	for _, req := range requests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"total":1`)
	}
	svc.AssertNumberOfCalls(t, "Search", 3)
}

func TestListByCategory_UnknownSlugIs404(t *testing.T) {
	svc := new(mockService)
	svc.On("ListByCategory", mock.Anything, "poetry").Return(nil, category.NewNotFoundError("poetry", category.ErrNotFound))

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/genre/poetry/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), category.ErrCodeCategoryNotFound)
}

func TestGetDetail_UnknownSlugIs404(t *testing.T) {
	svc := new(mockService)
	svc.On("GetDetail", mock.Anything, "nope").Return(nil, model.NewBookNotFoundError("nope", model.ErrNotFound))

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/nope/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeBookNotFound)
}

func TestUpload_Multipart(t *testing.T) {
	svc := new(mockService)
	svc.On("Upload", mock.Anything, mock.MatchedBy(func(req model.UploadBookRequest) bool {
		return req.Title == "Oliver Twist" &&
			assert.ObjectsAreEqual([]int64{1, 3}, req.CategoryIDs) &&
			req.PDF != nil && req.PDF.Filename == "oliver.pdf" && string(req.PDF.Data) == "%PDF-1.4" &&
			req.Cover == nil
	})).Return(&model.BookResponse{ID: 1, Slug: "oliver-twist"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Oliver Twist"))
	require.NoError(t, mw.WriteField("author", "Charles Dickens"))
	require.NoError(t, mw.WriteField("summary", "An orphan."))
	require.NoError(t, mw.WriteField("category", "1"))
	require.NoError(t, mw.WriteField("category", "3"))
	fw, err := mw.CreateFormFile("pdf", "oliver.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "oliver-twist")
	svc.AssertExpectations(t)
}

func TestUpload_DuplicateSlugIs409(t *testing.T) {
	svc := new(mockService)
	svc.On("Upload", mock.Anything, mock.Anything).Return(nil, model.NewDuplicateSlugError("oliver-twist"))

	req := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader("title=Oliver+Twist&author=A&summary=S&category=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeDuplicateSlug)
}

func TestExportCatalog(t *testing.T) {
	svc := new(mockService)
	svc.On("ExportCatalog", mock.Anything).Return([]byte("PK\x03\x04"), nil)

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/books/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}
