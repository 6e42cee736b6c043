package inbound

import (
	"net/http"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

type SessionPath struct {
	SessionID string `json:"session_id" validate:"required"`
}

type DatasetPath struct {
	SessionID string `json:"session_id" validate:"required"`
	DatasetID string `json:"dataset_id" validate:"required"`
}

type previewRequest struct {
	DatasetPath
	Rows int `json:"rows" validate:"min=0,max=100"`
}

type SelectColumnsRequest struct {
	Columns []string `json:"columns" validate:"required,min=1,unique,dive,required"`
}

type selectRequest struct {
	DatasetPath
	SelectColumnsRequest
}

type chartRequest struct {
	DatasetPath
	Type   string `json:"type" validate:"required,oneof=bar line pie"`
	Column string `json:"column" validate:"required_if=Type pie"`
}

type exportRequest struct {
	DatasetPath
	Format string `json:"format" validate:"required,oneof=csv xlsx"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	CreatedAt int64  `json:"created_at"`
}

func (SessionResponse) StatusCode() int {
	return http.StatusCreated
}

func (SessionResponse) Message() string {
	return "session created"
}

type Column struct {
	Name string           `json:"name"`
	Type table.ColumnType `json:"type"`
}

type DatasetInfo struct {
	ID        string        `json:"id"`
	FileName  string        `json:"file_name"`
	SizeKB    string        `json:"size_kb"`
	Extension string        `json:"extension"`
	Format    entity.Format `json:"format"`
	Rows      int           `json:"rows"`
	Columns   []Column      `json:"columns"`
	Selected  []string      `json:"selected"`
	Missing   int           `json:"missing"`
	CreatedAt int64         `json:"created_at"`
}

type FileResult struct {
	FileName string       `json:"file_name"`
	Status   string       `json:"status"`
	Dataset  *DatasetInfo `json:"dataset,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type UploadResponse struct {
	SessionID string       `json:"session_id"`
	Files     []FileResult `json:"files"`
	accepted  int
	rejected  int
}

func (UploadResponse) Message() string {
	return "upload processed"
}

func (r UploadResponse) Meta() map[string]any {
	return map[string]any{
		"accepted": r.accepted,
		"rejected": r.rejected,
	}
}

type DatasetListResponse struct {
	Datasets []DatasetInfo `json:"datasets"`
}

type Preview struct {
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
}

type DatasetResponse struct {
	Dataset DatasetInfo `json:"dataset"`
	Preview Preview     `json:"preview"`
}

func (r DatasetResponse) Meta() map[string]any {
	return map[string]any{"preview_rows": len(r.Preview.Rows)}
}

type CleanResponse struct {
	Dataset  DatasetInfo `json:"dataset"`
	Affected int         `json:"affected"`
	message  string
}

func (r CleanResponse) Message() string {
	return r.message
}

func toDatasetInfo(info entity.DatasetInfo) DatasetInfo {
	cols := make([]Column, len(info.Columns))
	for i, c := range info.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type}
	}

	return DatasetInfo{
		ID:        info.ID,
		FileName:  info.FileName,
		SizeKB:    info.SizeKB,
		Extension: info.Extension,
		Format:    info.Format,
		Rows:      info.Rows,
		Columns:   cols,
		Selected:  info.Selected,
		Missing:   info.Missing,
		CreatedAt: info.CreatedAt,
	}
}

func toPreview(t *table.Table) Preview {
	rows := make([][]table.Value, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return Preview{Columns: t.ColumnNames(), Rows: rows}
}

func toUploadResponse(result usecase.UploadResult) UploadResponse {
	files := make([]FileResult, 0, len(result.Files))
	for _, f := range result.Files {
		fr := FileResult{FileName: f.FileName}
		if f.Failure != nil {
			fr.Status = "failed"
			fr.Reason = string(f.Failure.Reason)
			fr.Error = f.Failure.Error()
		} else if f.Dataset != nil {
			info := toDatasetInfo(*f.Dataset)
			fr.Status = "ingested"
			fr.Dataset = &info
		}
		files = append(files, fr)
	}

	return UploadResponse{
		SessionID: result.SessionID,
		Files:     files,
		accepted:  result.Accepted,
		rejected:  result.Rejected,
	}
}
