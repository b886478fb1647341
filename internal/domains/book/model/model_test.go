package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freewriter/internal/domains/category"
)

func TestClassifyFlags(t *testing.T) {
	tests := []struct {
		name  string
		cats  []string
		flags Flags
	}{
		{"fiction only", []string{"FICTION"}, Flags{Recommended: true, Fiction: true}},
		{"business only", []string{"Science", "business "}, Flags{Recommended: true, Business: true}},
		{"both", []string{"Business", "Fiction"}, Flags{Recommended: true, Fiction: true, Business: true}},
		{"neither", []string{"Science Fiction", "Self-Help"}, Flags{}},
		{"none", nil, Flags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.flags, ClassifyFlags(tt.cats))
		})
	}
}

func TestFallbackPDFURL(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Oliver Twist", "https://www.welib.org/search?q=Oliver%20Twist"},
		{"Linux: Tips (Vol 3)", "https://www.welib.org/search?q=Linux%20Tips%20Vol%203"},
		{"  A   Random\tWalk ", "https://www.welib.org/search?q=A%20Random%20Walk"},
		{"Rock & Roll/Blues?", "https://www.welib.org/search?q=Rock%20%26%20Roll/Blues%3F"},
		{"Café", "https://www.welib.org/search?q=Caf%C3%A9"},
		{"a_b.c-d~e", "https://www.welib.org/search?q=a_b.c-d~e"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackPDFURL(tt.title))
		})
	}
}

func TestParseFlag(t *testing.T) {
	f, ok := ParseFlag(" Fiction ")
	require.True(t, ok)
	assert.Equal(t, FlagFiction, f)
	assert.Equal(t, "fiction_books", f.Column())

	_, ok = ParseFlag("poetry")
	assert.False(t, ok)
}

func TestUploadBookRequest_Validate(t *testing.T) {
	req := UploadBookRequest{Title: "  Oliver Twist ", Author: "Charles Dickens", Summary: "An orphan.", CategoryIDs: []int64{2, 2, 1}}
	req.Normalize()

	require.NoError(t, req.Validate())
	assert.Equal(t, "Oliver Twist", req.Title)
	assert.Equal(t, []int64{2, 1}, req.CategoryIDs)

	empty := UploadBookRequest{Title: " "}
	empty.Normalize()
	err := empty.Validate()
	require.Error(t, err)
	for _, field := range []string{"title", "author", "summary", "category"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestSearchRequest_Normalize(t *testing.T) {
	got := SearchRequest{NameOfBook: "  walk ", Author: " Malkiel "}.Normalize()
	assert.Equal(t, SearchRequest{Query: "walk", Author: "Malkiel"}, got)

	got = SearchRequest{Query: "oliver", NameOfBook: "ignored"}.Normalize()
	assert.Equal(t, "oliver", got.Query)
}

func TestToBookResponse(t *testing.T) {
	cover := "img/abc-cover.jpg"
	pdf := "pdf/abc-book.pdf"
	link := FallbackPDFURL("Oliver Twist")
	resolve := func(key string) string { return "http://blobs/" + key }

	withPDF := ToBookResponse(Book{ID: 1, CoverImage: &cover, PDF: &pdf, PDFURL: &link,
		Categories: []category.Category{{Name: "Fiction"}}}, resolve)
	assert.Equal(t, "http://blobs/img/abc-cover.jpg", withPDF.CoverURL)
	assert.Equal(t, "http://blobs/pdf/abc-book.pdf", withPDF.PDFURL)
	assert.True(t, withPDF.HasPDF)
	assert.Equal(t, "fas fa-magic", withPDF.Categories[0].Icon)

	fallback := ToBookResponse(Book{ID: 2, PDFURL: &link}, resolve)
	assert.Equal(t, link, fallback.PDFURL)
	assert.False(t, fallback.HasPDF)
	assert.Empty(t, fallback.CoverURL)
}
