package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkglog"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/chart"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/export"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/ingest"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

const (
	DefaultPreviewRows = 5
	MaxPreviewRows     = 100
)

type Store interface {
	CreateSession(ctx context.Context, session entity.Session) error
	GetSession(ctx context.Context, sessionID string) (entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	AddDataset(ctx context.Context, sessionID string, ds *entity.Dataset) error
	ListDatasets(ctx context.Context, sessionID string) ([]entity.DatasetInfo, error)
	ReadDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error
	UpdateDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error
}

type Ingester interface {
	Ingest(ctx context.Context, file entity.UploadedFile) (*table.Table, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.IngestEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store       Store
	Ingester    Ingester
	Events      EventPublisher
	Clock       Clock
	SessionID   pkguid.StringID
	DatasetID   pkguid.StringID
	PreviewRows int
}

type Usecase struct {
	store       Store
	ingester    Ingester
	events      EventPublisher
	clock       Clock
	sessionID   pkguid.StringID
	datasetID   pkguid.StringID
	previewRows int
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	ingester := dep.Ingester
	if ingester == nil {
		ingester = ingest.New()
	}

	preview := dep.PreviewRows
	if preview < 1 {
		preview = DefaultPreviewRows
	}

	sessionID := dep.SessionID
	if sessionID == nil {
		sessionID = pkguid.NewUUID()
	}

	datasetID := dep.DatasetID
	if datasetID == nil {
		datasetID = sessionID
	}

	return &Usecase{
		store:       dep.Store,
		ingester:    ingester,
		events:      dep.Events,
		clock:       clock,
		sessionID:   sessionID,
		datasetID:   datasetID,
		previewRows: preview,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) CreateSession(ctx context.Context) (entity.Session, error) {
	session := entity.Session{
		ID:        u.sessionID.Generate(),
		CreatedAt: u.clock.Now().Unix(),
	}

	if err := u.store.CreateSession(ctx, session); err != nil {
		return entity.Session{}, pkgerror.Normalize(err)
	}

	slog.InfoContext(ctx, "session created", "session_id", session.ID)

	return session, nil
}

func (u *Usecase) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	if err := u.store.DeleteSession(ctx, sessionID); err != nil {
		return mapStoreErr(err, "session")
	}

	slog.InfoContext(ctx, "session deleted", "session_id", sessionID)

	return nil
}

// Upload ingests files one at a time in the given order. A file that cannot
// be ingested is reported in the result and does not stop the others.
func (u *Usecase) Upload(ctx context.Context, sessionID string, files []entity.UploadedFile) (UploadResult, error) {
	if len(files) == 0 {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("at least one file is required"))
	}

	if err := u.requireSession(ctx, sessionID); err != nil {
		return UploadResult{}, err
	}

	ctx = pkglog.WithAttrs(ctx, slog.String("session_id", sessionID))
	result := UploadResult{
		SessionID: sessionID,
		Files:     make([]FileResult, 0, len(files)),
	}

	for _, file := range files {
		fr, err := u.ingestOne(ctx, sessionID, file)
		if err != nil {
			return UploadResult{}, err
		}

		if fr.Failure != nil {
			result.Rejected++
		} else {
			result.Accepted++
		}
		result.Files = append(result.Files, fr)
	}

	return result, nil
}

func (u *Usecase) ingestOne(ctx context.Context, sessionID string, file entity.UploadedFile) (FileResult, error) {
	start := u.clock.Now()
	tbl, err := u.ingester.Ingest(ctx, file)
	elapsed := u.clock.Now().Sub(start)

	format, _, _ := ingest.DetectFormat(file)
	ev := entity.IngestEvent{
		EventID:   u.sessionID.Generate(),
		SessionID: sessionID,
		FileName:  file.Name,
		Format:    string(format),
		Duration:  elapsed,
	}

	if err != nil {
		failure, ok := ingest.AsFailure(err)
		if !ok {
			failure = &ingest.Failure{Reason: ingest.ReasonParseError, Message: "failed to parse " + file.Name, Err: err}
		}

		ev.Outcome = string(failure.Reason)
		u.publish(ctx, ev)
		slog.InfoContext(ctx, "file rejected",
			"file", file.Name, "size_bytes", file.Size, "format", ev.Format, "outcome", ev.Outcome, "duration_ms", elapsed.Milliseconds(), "error", failure.Err)

		return FileResult{FileName: file.Name, Failure: failure}, nil
	}

	ds := &entity.Dataset{
		ID:        u.datasetID.Generate(),
		FileName:  file.Name,
		Size:      file.Size,
		Extension: file.Extension,
		Format:    format,
		CreatedAt: u.clock.Now().Unix(),
		Table:     tbl,
	}

	if err := u.store.AddDataset(ctx, sessionID, ds); err != nil {
		return FileResult{}, mapStoreErr(err, "session")
	}

	ev.DatasetID = ds.ID
	ev.Outcome = entity.IngestOutcomeOK
	ev.Rows = tbl.NumRows()
	u.publish(ctx, ev)
	slog.InfoContext(ctx, "file ingested",
		"file", file.Name, "format", ev.Format, "outcome", ev.Outcome, "dataset_id", ds.ID,
		"rows", ev.Rows, "columns", tbl.NumColumns(), "duration_ms", elapsed.Milliseconds())

	info := ds.Info()
	return FileResult{FileName: file.Name, Dataset: &info}, nil
}

func (u *Usecase) publish(ctx context.Context, ev entity.IngestEvent) {
	if u.events == nil {
		return
	}

	if err := u.events.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "event_id", ev.EventID, "error", err)
	}
}

func (u *Usecase) ListDatasets(ctx context.Context, sessionID string) ([]entity.DatasetInfo, error) {
	if sessionID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	infos, err := u.store.ListDatasets(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err, "session")
	}

	return infos, nil
}

// Dataset returns the dataset summary and the first rows of its current view.
// A non-positive rows uses the configured preview size.
func (u *Usecase) Dataset(ctx context.Context, sessionID, datasetID string, rows int) (DatasetResult, error) {
	if rows < 1 {
		rows = u.previewRows
	}
	if rows > MaxPreviewRows {
		rows = MaxPreviewRows
	}

	var out DatasetResult
	err := u.read(ctx, sessionID, datasetID, func(ds *entity.Dataset) error {
		view, err := ds.View()
		if err != nil {
			return err
		}

		out = DatasetResult{Info: ds.Info(), Preview: view.Head(rows)}
		return nil
	})
	if err != nil {
		return DatasetResult{}, err
	}

	return out, nil
}

// RemoveDuplicates drops repeated rows of the full table.
func (u *Usecase) RemoveDuplicates(ctx context.Context, sessionID, datasetID string) (CleanResult, error) {
	return u.clean(ctx, sessionID, datasetID, "duplicates removed", (*table.Table).DropDuplicates)
}

// FillMissing replaces missing numeric cells of the full table with their column mean.
func (u *Usecase) FillMissing(ctx context.Context, sessionID, datasetID string) (CleanResult, error) {
	return u.clean(ctx, sessionID, datasetID, "missing values filled", (*table.Table).FillMissingWithMean)
}

func (u *Usecase) clean(ctx context.Context, sessionID, datasetID, logMsg string, op func(*table.Table) int) (CleanResult, error) {
	var out CleanResult
	err := u.update(ctx, sessionID, datasetID, func(ds *entity.Dataset) error {
		out.Affected = op(ds.Table)
		out.Info = ds.Info()
		return nil
	})
	if err != nil {
		return CleanResult{}, err
	}

	slog.InfoContext(ctx, logMsg, "session_id", sessionID, "dataset_id", datasetID, "affected", out.Affected)

	return out, nil
}

// SelectColumns stores the projection used by preview, chart and export.
func (u *Usecase) SelectColumns(ctx context.Context, in SelectInput) (entity.DatasetInfo, error) {
	var info entity.DatasetInfo
	err := u.update(ctx, in.SessionID, in.DatasetID, func(ds *entity.Dataset) error {
		if _, err := ds.Table.Select(in.Columns); err != nil {
			return err
		}

		ds.Selected = append([]string(nil), in.Columns...)
		info = ds.Info()
		return nil
	})
	if err != nil {
		return entity.DatasetInfo{}, err
	}

	return info, nil
}

func (u *Usecase) Chart(ctx context.Context, in ChartInput) (*chart.Data, error) {
	typ, err := chart.ParseType(in.Type)
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	var data *chart.Data
	err = u.read(ctx, in.SessionID, in.DatasetID, func(ds *entity.Dataset) error {
		view, err := ds.View()
		if err != nil {
			return err
		}

		data, err = chart.Build(view, typ, in.Column)
		return err
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// ChartImage renders the chart of Chart as a PNG.
func (u *Usecase) ChartImage(ctx context.Context, in ChartInput) ([]byte, error) {
	data, err := u.Chart(ctx, in)
	if err != nil {
		return nil, err
	}

	img, err := chart.PNG(data)
	if err != nil {
		return nil, pkgerror.NewServer(fmt.Errorf("render chart: %w", err))
	}

	return img, nil
}

func (u *Usecase) Export(ctx context.Context, in ExportInput) (*export.File, error) {
	var file *export.File
	err := u.read(ctx, in.SessionID, in.DatasetID, func(ds *entity.Dataset) error {
		view, err := ds.View()
		if err != nil {
			return err
		}

		file, err = export.Render(view, in.Format, ds.FileName)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "dataset exported",
		"session_id", in.SessionID,
		"dataset_id", in.DatasetID,
		"format", in.Format,
		"bytes", len(file.Data),
	)

	return file, nil
}

func (u *Usecase) requireSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	if _, err := u.store.GetSession(ctx, sessionID); err != nil {
		return mapStoreErr(err, "session")
	}

	return nil
}

func (u *Usecase) read(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error {
	return u.withDataset(ctx, sessionID, datasetID, u.store.ReadDataset, fn)
}

func (u *Usecase) update(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error {
	return u.withDataset(ctx, sessionID, datasetID, u.store.UpdateDataset, fn)
}

type datasetAccess func(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error

func (u *Usecase) withDataset(ctx context.Context, sessionID, datasetID string, access datasetAccess, fn func(ds *entity.Dataset) error) error {
	if err := u.requireSession(ctx, sessionID); err != nil {
		return err
	}

	if datasetID == "" {
		return pkgerror.NewInvalidInput(errors.New("dataset_id is required"))
	}

	if err := access(ctx, sessionID, datasetID, fn); err != nil {
		return mapStoreErr(err, "dataset")
	}

	return nil
}

func mapStoreErr(err error, resource string) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound(resource)
	}
	return mapDomainErr(err)
}

func mapDomainErr(err error) error {
	switch {
	case errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrEmptySelection),
		errors.Is(err, table.ErrDuplicateColumn),
		errors.Is(err, chart.ErrColumnRequired),
		errors.Is(err, chart.ErrUnknownType),
		errors.Is(err, export.ErrUnsupportedFormat):
		return pkgerror.NewInvalidInput(err)
	case errors.Is(err, chart.ErrNoNumericColumn):
		return pkgerror.NewBusiness("dataset has no numeric column to plot", pkgerror.CodeInvalidInput)
	}
	return pkgerror.Normalize(err)
}
