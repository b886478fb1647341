package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"freewriter/internal/domains/category"
	reviewModel "freewriter/internal/domains/review/model"
)

// ============================================
// REQUESTS
// ============================================

// SearchRequest is accepted from the query string, a form post or JSON.
// "name_of_book" is the historical field name of the free-text query.
type SearchRequest struct {
	Query      string `form:"q" json:"q"`
	NameOfBook string `form:"name_of_book" json:"name_of_book"`
	Category   string `form:"category" json:"category"`
	Author     string `form:"author" json:"author"`
}

// Normalize trims every field and folds name_of_book into Query.
func (r SearchRequest) Normalize() SearchRequest {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		q = strings.TrimSpace(r.NameOfBook)
	}
	return SearchRequest{
		Query:    q,
		Category: strings.TrimSpace(r.Category),
		Author:   strings.TrimSpace(r.Author),
	}
}

// FileUpload is an in-memory uploaded file.
type FileUpload struct {
	Filename string
	Data     []byte
}

type UploadBookRequest struct {
	Title       string  `form:"title" json:"title"`
	Author      string  `form:"author" json:"author"`
	Summary     string  `form:"summary" json:"summary"`
	CategoryIDs []int64 `form:"category" json:"category"`

	Cover *FileUpload `form:"-" json:"-"`
	PDF   *FileUpload `form:"-" json:"-"`
}

// Normalize trims text fields and drops duplicate category ids.
func (r *UploadBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Summary = strings.TrimSpace(r.Summary)

	seen := make(map[int64]bool, len(r.CategoryIDs))
	ids := r.CategoryIDs[:0]
	for _, id := range r.CategoryIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	r.CategoryIDs = ids
}

func (r UploadBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.Author, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.Summary, validation.Required),
		validation.Field(&r.CategoryIDs,
			validation.Required.Error("select at least one category"),
			validation.Each(validation.Min(int64(1))),
		),
	)
}

// ============================================
// RESPONSES
// ============================================

type BookResponse struct {
	ID          int64                   `json:"id"`
	Title       string                  `json:"title"`
	Author      string                  `json:"author"`
	Summary     string                  `json:"summary"`
	Slug        string                  `json:"slug"`
	CoverURL    string                  `json:"cover_url,omitempty"`
	PDFURL      string                  `json:"pdf_url,omitempty"`
	HasPDF      bool                    `json:"has_pdf"`
	Recommended bool                    `json:"recommended_books"`
	Fiction     bool                    `json:"fiction_books"`
	Business    bool                    `json:"business_books"`
	Categories  []category.CategoryResp `json:"categories"`
	CreatedAt   time.Time               `json:"created_at"`
}

// URLResolver turns a blob key into a public URL.
type URLResolver func(key string) string

// ToBookResponse links the uploaded PDF when present, the fallback URL otherwise.
func ToBookResponse(b Book, resolve URLResolver) BookResponse {
	resp := BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Summary:     b.Summary,
		Slug:        b.Slug,
		HasPDF:      b.HasPDF(),
		Recommended: b.Recommended,
		Fiction:     b.Fiction,
		Business:    b.Business,
		Categories:  category.ToResponses(b.Categories),
		CreatedAt:   b.CreatedAt,
	}

	if b.HasCover() && resolve != nil {
		resp.CoverURL = resolve(*b.CoverImage)
	}
	switch {
	case b.HasPDF() && resolve != nil:
		resp.PDFURL = resolve(*b.PDF)
	case b.HasPDFURL():
		resp.PDFURL = *b.PDFURL
	}
	return resp
}

func ToBookResponses(books []Book, resolve URLResolver) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, ToBookResponse(b, resolve))
	}
	return out
}

type HomeResponse struct {
	Recommended []BookResponse `json:"recommended_books"`
	Fiction     []BookResponse `json:"fiction_books"`
	Business    []BookResponse `json:"business_books"`
}

type CategoryBooksResponse struct {
	Category category.CategoryResp `json:"category"`
	Books    []BookResponse        `json:"books"`
}

type BookDetailResponse struct {
	Book         BookResponse                 `json:"book"`
	Rating       reviewModel.RatingSummary    `json:"rating"`
	Reviews      []reviewModel.ReviewResponse `json:"reviews"`
	SimilarBooks []BookResponse               `json:"similar_books"`
}

type SearchResult struct {
	Query      string                  `json:"query"`
	Category   string                  `json:"category,omitempty"`
	Author     string                  `json:"author,omitempty"`
	Books      []BookResponse          `json:"books"`
	Authors    []string                `json:"authors"`
	Categories []category.CategoryResp `json:"categories"`
	Total      int                     `json:"total"`
}

type UploadFormResponse struct {
	Categories    []category.CategoryResp `json:"categories"`
	MaxImageBytes int64                   `json:"max_image_bytes"`
	MaxPDFBytes   int64                   `json:"max_pdf_bytes"`
	ImageFormats  []string                `json:"image_formats"`
}
