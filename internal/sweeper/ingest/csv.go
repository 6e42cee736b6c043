package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

var (
	errNoColumns = errors.New("no columns to parse from file")
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
)

func readCSV(file entity.UploadedFile) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Content, utf8BOM)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, parseError(file.Name, errNoColumns)
	}
	if err != nil {
		return nil, parseError(file.Name, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(file.Name, err)
		}

		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, parseError(file.Name, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record)))
		}

		rows = append(rows, record)
	}

	return table.FromRecords(header, rows), nil
}
