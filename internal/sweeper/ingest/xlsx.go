package ingest

import (
	"bytes"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

var errNoSheets = errors.New("workbook has no worksheets")

func readXLSX(file entity.UploadedFile) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	if err != nil {
		return nil, parseError(file.Name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(file.Name, errNoSheets)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(file.Name, err)
	}

	rows = trimBlankRows(rows)
	if len(rows) == 0 {
		return nil, noTabularData("the first worksheet is empty")
	}

	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}

	return table.FromRecords(header, rows[1:]), nil
}

// trimBlankRows drops blank rows before the header and after the last data
// row. Blank rows in between stay and become rows of missing cells.
func trimBlankRows(rows [][]string) [][]string {
	start, end := 0, len(rows)
	for start < end && isBlankRow(rows[start]) {
		start++
	}
	for end > start && isBlankRow(rows[end-1]) {
		end--
	}
	return rows[start:end]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
