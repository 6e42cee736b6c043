package usecase

import (
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/ingest"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

// FileResult is the outcome of one uploaded file: a dataset or a failure.
type FileResult struct {
	FileName string
	Dataset  *entity.DatasetInfo
	Failure  *ingest.Failure
}

type UploadResult struct {
	SessionID string
	Files     []FileResult
	Accepted  int
	Rejected  int
}

type DatasetResult struct {
	Info    entity.DatasetInfo
	Preview *table.Table
}

// CleanResult reports how many rows or cells an operation changed.
type CleanResult struct {
	Info     entity.DatasetInfo
	Affected int
}

type ExportInput struct {
	SessionID string
	DatasetID string
	Format    entity.Format
}

type ChartInput struct {
	SessionID string
	DatasetID string
	Type      string
	Column    string
}

type SelectInput struct {
	SessionID string
	DatasetID string
	Columns   []string
}
