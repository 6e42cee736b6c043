package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor finds at most one table per page from the positioned text of
// each page.
type PDFExtractor struct {
	layout Layout
}

// NewPDFExtractor returns an extractor using DefaultLayout.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{layout: DefaultLayout()}
}

// ExtractPageTables implements TableExtractor. Panics raised by the PDF
// reader on malformed documents are returned as errors.
func (e *PDFExtractor) ExtractPageTables(ctx context.Context, r io.ReaderAt, size int64) (tables [][][]string, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			tables = nil
			err = fmt.Errorf("pdf reader: %v", rvr)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	tables = make([][][]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			tables = append(tables, nil)
			continue
		}

		texts := page.Content().Text
		glyphs := make([]Glyph, 0, len(texts))
		for _, t := range texts {
			glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
		}

		tables = append(tables, e.layout.DetectTable(glyphs))
	}

	return tables, nil
}
