package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"freewriter/internal/domains/book/model"
)

const exportSheetName = "Book list"

var exportHeaders = []string{
	"ID",
	"Title",
	"Slug",
	"Author",
	"Categories",
	"Recommended",
	"Fiction",
	"Business",
	"Has PDF",
	"PDF Link",
	"Cover URL",
	"Created At",
}

func (s *BookService) ExportCatalog(ctx context.Context) ([]byte, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if err := s.attachCategories(ctx, books); err != nil {
		return nil, err
	}

	f, err := s.buildBooksExcelFile(model.ToBookResponses(books, s.resolveURL))
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *BookService) buildBooksExcelFile(books []model.BookResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	// Rename default sheet
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheetName, "A1", lastCol, headerStyle)
	}

	// Data rows from row 2
	for i, b := range books {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		categories := make([]string, 0, len(b.Categories))
		for _, c := range b.Categories {
			categories = append(categories, c.Name)
		}

		f.SetCellValue(exportSheetName, cell(1), b.ID)
		f.SetCellValue(exportSheetName, cell(2), b.Title)
		f.SetCellValue(exportSheetName, cell(3), b.Slug)
		f.SetCellValue(exportSheetName, cell(4), b.Author)
		f.SetCellValue(exportSheetName, cell(5), strings.Join(categories, ", "))
		f.SetCellValue(exportSheetName, cell(6), b.Recommended)
		f.SetCellValue(exportSheetName, cell(7), b.Fiction)
		f.SetCellValue(exportSheetName, cell(8), b.Business)
		f.SetCellValue(exportSheetName, cell(9), b.HasPDF)
		f.SetCellValue(exportSheetName, cell(10), b.PDFURL)
		f.SetCellValue(exportSheetName, cell(11), b.CoverURL)
		f.SetCellValue(exportSheetName, cell(12), b.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return f, nil
}
