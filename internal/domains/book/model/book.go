package model

import (
	"time"

	"freewriter/internal/domains/category"
)

// Book is a catalog entry. Slug is derived from the title once and never changes.
// A book links either an uploaded PDF (blob key) or a fallback search URL.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Summary     string
	CoverImage  *string // blob key under img/
	PDF         *string // blob key under pdf/
	PDFURL      *string // external fallback link
	Slug        string
	Recommended bool
	Fiction     bool
	Business    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categories []category.Category
}

// HasPDF reports whether an uploaded PDF is attached.
func (b *Book) HasPDF() bool {
	return b.PDF != nil && *b.PDF != ""
}

func (b *Book) HasCover() bool {
	return b.CoverImage != nil && *b.CoverImage != ""
}

func (b *Book) HasPDFURL() bool {
	return b.PDFURL != nil && *b.PDFURL != ""
}

// CategoryIDs returns the ids of the associated categories.
func (b *Book) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
