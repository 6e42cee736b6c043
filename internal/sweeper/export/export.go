// Package export renders tables as downloadable CSV or Excel files.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

const (
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// SheetName is the only sheet of an exported workbook.
	SheetName = "Sheet1"
)

// ErrUnsupportedFormat is returned for output formats other than CSV and XLSX.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Render writes t in format and names the result after source.
func Render(t *table.Table, format entity.Format, source string) (*File, error) {
	var (
		data []byte
		mime string
		err  error
	)

	switch format {
	case entity.FormatCSV:
		data, err = CSV(t)
		mime = MimeCSV
	case entity.FormatXLSX:
		data, err = XLSX(t)
		mime = MimeXLSX
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        FileName(source, format),
		ContentType: mime,
		Data:        data,
	}, nil
}

// FileName replaces the extension of source with the one of format.
func FileName(source string, format entity.Format) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "data"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + format.Extension()
}

// emptyField is how a row holding a single empty cell is written; a bare
// empty line would be read back as a blank line and skipped.
const emptyField = "\"\"\n"

// CSV writes a header row then one line per row, without an index column.
func CSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, err
	}
	for _, record := range t.Records() {
		if len(record) == 1 && record[0] == "" {
			w.Flush()
			buf.WriteString(emptyField)
			continue
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// XLSX writes a single-sheet workbook. Numbers are stored as numeric cells
// and missing cells are left blank.
func XLSX(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, err
	}

	header := make([]any, t.NumColumns())
	for i, name := range t.ColumnNames() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for r := 0; r < t.NumRows(); r++ {
		cells := make([]any, t.NumColumns())
		for c, v := range t.Row(r) {
			switch v.Kind {
			case table.KindNumber:
				if math.IsInf(v.Num, 0) || math.IsNaN(v.Num) {
					cells[c] = v.String()
					continue
				}
				cells[c] = v.Num
			case table.KindText:
				cells[c] = v.Str
			default:
				cells[c] = nil
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
