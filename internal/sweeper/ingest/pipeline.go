package ingest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

// TableExtractor finds tables in a PDF document.
type TableExtractor interface {
	// ExtractPageTables returns one entry per page in document order, each
	// holding the rows of at most one table, or nil when the page has none.
	ExtractPageTables(ctx context.Context, r io.ReaderAt, size int64) ([][][]string, error)
}

// Pipeline dispatches an uploaded file to the reader of its format.
type Pipeline struct {
	pdf TableExtractor
	now func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPDFExtractor replaces the default PDF table extractor.
func WithPDFExtractor(e TableExtractor) Option {
	return func(p *Pipeline) {
		p.pdf = e
	}
}

// New builds a Pipeline with the default readers.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		pdf: NewPDFExtractor(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectFormat derives the input format from the file's declared extension,
// falling back to the extension of its name.
func DetectFormat(file entity.UploadedFile) (entity.Format, string, bool) {
	ext := file.Extension
	if ext == "" {
		ext = filepath.Ext(file.Name)
	}
	format, ok := entity.FormatFromExtension(ext)
	return format, ext, ok
}

// Ingest reads file into a table. The returned error, when not nil, is a *Failure.
func (p *Pipeline) Ingest(ctx context.Context, file entity.UploadedFile) (*table.Table, error) {
	format, ext, ok := DetectFormat(file)
	if !ok {
		slog.WarnContext(ctx, "unsupported file skipped", "file", file.Name, "extension", ext)
		return nil, unsupportedFormat(ext)
	}

	start := p.now()
	tbl, err := p.read(ctx, format, file)
	latency := p.now().Sub(start)

	if err != nil {
		reason := ReasonParseError
		if f, ok := AsFailure(err); ok {
			reason = f.Reason
		} else {
			err = parseError(file.Name, err)
		}
		slog.WarnContext(ctx, "file ingest failed",
			"file", file.Name,
			"format", format,
			"reason", reason,
			"error", err,
			"latency_ms", latency.Milliseconds(),
		)
		return nil, err
	}

	slog.InfoContext(ctx, "file ingested",
		"file", file.Name,
		"format", format,
		"rows", tbl.NumRows(),
		"columns", tbl.NumColumns(),
		"latency_ms", latency.Milliseconds(),
	)

	return tbl, nil
}

func (p *Pipeline) read(ctx context.Context, format entity.Format, file entity.UploadedFile) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, parseError(file.Name, err)
	}

	switch format {
	case entity.FormatCSV:
		return readCSV(file)
	case entity.FormatXLSX:
		return readXLSX(file)
	case entity.FormatPDF:
		return p.readPDF(ctx, file)
	default:
		return nil, unsupportedFormat(format.Extension())
	}
}

func (p *Pipeline) readPDF(ctx context.Context, file entity.UploadedFile) (*table.Table, error) {
	pages, err := p.pdf.ExtractPageTables(ctx, bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return nil, parseError(file.Name, err)
	}

	var rows [][]string
	for _, page := range pages {
		rows = append(rows, page...)
	}

	if len(rows) == 0 {
		return nil, noTabularData("no tabular data found in this PDF")
	}

	return table.FromRecords(rows[0], rows[1:]), nil
}
