package inbound

import (
	"context"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/chart"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/export"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

// DefaultMaxUploadBytes caps a multipart upload request when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

type uc interface {
	CreateSession(ctx context.Context) (entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Upload(ctx context.Context, sessionID string, files []entity.UploadedFile) (usecase.UploadResult, error)
	ListDatasets(ctx context.Context, sessionID string) ([]entity.DatasetInfo, error)
	Dataset(ctx context.Context, sessionID, datasetID string, rows int) (usecase.DatasetResult, error)
	RemoveDuplicates(ctx context.Context, sessionID, datasetID string) (usecase.CleanResult, error)
	FillMissing(ctx context.Context, sessionID, datasetID string) (usecase.CleanResult, error)
	SelectColumns(ctx context.Context, in usecase.SelectInput) (entity.DatasetInfo, error)
	Chart(ctx context.Context, in usecase.ChartInput) (*chart.Data, error)
	ChartImage(ctx context.Context, in usecase.ChartInput) ([]byte, error)
	Export(ctx context.Context, in usecase.ExportInput) (*export.File, error)
}

type validator interface {
	Validate(s any) error
}

type Config struct {
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, v validator, cfg Config) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	end := &HTTPEndpoint{uc: uc, validator: v, maxUploadBytes: cfg.MaxUploadBytes}

	r.POST("/sessions", end.CreateSession)
	r.DELETE("/sessions/:session_id", end.DeleteSession)

	r.POST("/sessions/:session_id/files", end.UploadFiles)
	r.GET("/sessions/:session_id/datasets", end.ListDatasets)
	r.GET("/sessions/:session_id/datasets/:dataset_id", end.Dataset) // ?rows=

	r.POST("/sessions/:session_id/datasets/:dataset_id/duplicates", end.RemoveDuplicates)
	r.POST("/sessions/:session_id/datasets/:dataset_id/missing", end.FillMissing)
	r.PUT("/sessions/:session_id/datasets/:dataset_id/columns", end.SelectColumns)

	r.GET("/sessions/:session_id/datasets/:dataset_id/chart", end.Chart)            // ?type=&column=
	r.GET("/sessions/:session_id/datasets/:dataset_id/chart/image", end.ChartImage) // ?type=&column=
	r.GET("/sessions/:session_id/datasets/:dataset_id/export", end.Export)          // ?format=
}
