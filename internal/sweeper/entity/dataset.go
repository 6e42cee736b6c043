package entity

import (
	"fmt"
	"strings"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

// Session is the explicit per-client state that replaces widget globals.
type Session struct {
	ID        string
	CreatedAt int64
}

// Dataset is one successfully ingested file of a session.
type Dataset struct {
	ID        string
	FileName  string
	Size      int64
	Extension string
	Format    Format
	CreatedAt int64

	Table *table.Table
	// Selected is the column projection used by preview, chart and export.
	Selected []string
}

// View returns the table projected on the current selection.
func (d *Dataset) View() (*table.Table, error) {
	if len(d.Selected) == 0 {
		return d.Table, nil
	}
	return d.Table.Select(d.Selected)
}

// ColumnInfo describes one column of a dataset.
type ColumnInfo struct {
	Name string
	Type table.ColumnType
}

// DatasetInfo is the file metadata shown for a dataset.
type DatasetInfo struct {
	ID        string
	FileName  string
	SizeKB    string
	Extension string
	Format    Format
	Rows      int
	Columns   []ColumnInfo
	Selected  []string
	Missing   int
	CreatedAt int64
}

// Info summarizes the dataset.
func (d *Dataset) Info() DatasetInfo {
	cols := d.Table.Columns()
	infos := make([]ColumnInfo, len(cols))
	for i, col := range cols {
		infos[i] = ColumnInfo{Name: col.Name, Type: col.Type}
	}

	selected := d.Selected
	if len(selected) == 0 {
		selected = d.Table.ColumnNames()
	}

	return DatasetInfo{
		ID:        d.ID,
		FileName:  d.FileName,
		SizeKB:    SizeKB(d.Size),
		Extension: strings.ToUpper(d.Extension),
		Format:    d.Format,
		Rows:      d.Table.NumRows(),
		Columns:   infos,
		Selected:  append([]string(nil), selected...),
		Missing:   d.Table.MissingCount(),
		CreatedAt: d.CreatedAt,
	}
}

// SizeKB formats a byte size in kilobytes with two decimals.
func SizeKB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/1024)
}
