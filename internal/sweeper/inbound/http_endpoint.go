package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

type HTTPEndpoint struct {
	uc             uc
	validator      validator
	maxUploadBytes int64
}

func (h *HTTPEndpoint) CreateSession(ctx context.Context, r *http.Request) (any, error) {
	session, err := h.uc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	return SessionResponse{SessionID: session.ID, CreatedAt: session.CreatedAt}, nil
}

func (h *HTTPEndpoint) DeleteSession(ctx context.Context, r *http.Request) (any, error) {
	in := SessionPath{SessionID: pkgrouter.GetParam(ctx, "session_id")}
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteSession(ctx, in.SessionID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) UploadFiles(ctx context.Context, r *http.Request) (any, error) {
	in := SessionPath{SessionID: pkgrouter.GetParam(ctx, "session_id")}
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	if r.ContentLength > h.maxUploadBytes {
		return nil, h.tooLarge()
	}
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)

	files, err := h.extractFiles(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, in.SessionID, files)
	if err != nil {
		return nil, err
	}

	return toUploadResponse(result), nil
}

func (h *HTTPEndpoint) ListDatasets(ctx context.Context, r *http.Request) (any, error) {
	in := SessionPath{SessionID: pkgrouter.GetParam(ctx, "session_id")}
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	infos, err := h.uc.ListDatasets(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	items := make([]DatasetInfo, 0, len(infos))
	for _, info := range infos {
		items = append(items, toDatasetInfo(info))
	}

	return DatasetListResponse{Datasets: items}, nil
}

func (h *HTTPEndpoint) Dataset(ctx context.Context, r *http.Request) (any, error) {
	in := previewRequest{DatasetPath: pathParams(ctx)}

	if raw := strings.TrimSpace(r.URL.Query().Get("rows")); raw != "" {
		rows, err := strconv.Atoi(raw)
		if err != nil {
			return nil, pkgerror.NewInvalidInput(errors.New("rows must be a number"))
		}
		in.Rows = rows
	}

	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	result, err := h.uc.Dataset(ctx, in.SessionID, in.DatasetID, in.Rows)
	if err != nil {
		return nil, err
	}

	return DatasetResponse{
		Dataset: toDatasetInfo(result.Info),
		Preview: toPreview(result.Preview),
	}, nil
}

func (h *HTTPEndpoint) RemoveDuplicates(ctx context.Context, r *http.Request) (any, error) {
	in := pathParams(ctx)
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	result, err := h.uc.RemoveDuplicates(ctx, in.SessionID, in.DatasetID)
	if err != nil {
		return nil, err
	}

	return CleanResponse{
		Dataset:  toDatasetInfo(result.Info),
		Affected: result.Affected,
		message:  fmt.Sprintf("removed %d duplicate rows", result.Affected),
	}, nil
}

func (h *HTTPEndpoint) FillMissing(ctx context.Context, r *http.Request) (any, error) {
	in := pathParams(ctx)
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	result, err := h.uc.FillMissing(ctx, in.SessionID, in.DatasetID)
	if err != nil {
		return nil, err
	}

	return CleanResponse{
		Dataset:  toDatasetInfo(result.Info),
		Affected: result.Affected,
		message:  fmt.Sprintf("filled %d missing values", result.Affected),
	}, nil
}

func (h *HTTPEndpoint) SelectColumns(ctx context.Context, r *http.Request) (any, error) {
	var req SelectColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	in := selectRequest{DatasetPath: pathParams(ctx), SelectColumnsRequest: req}
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	info, err := h.uc.SelectColumns(ctx, usecase.SelectInput{
		SessionID: in.SessionID,
		DatasetID: in.DatasetID,
		Columns:   req.Columns,
	})
	if err != nil {
		return nil, err
	}

	return toDatasetInfo(info), nil
}

func (h *HTTPEndpoint) Chart(ctx context.Context, r *http.Request) (any, error) {
	in, err := h.chartInput(ctx, r)
	if err != nil {
		return nil, err
	}

	return h.uc.Chart(ctx, in)
}

func (h *HTTPEndpoint) ChartImage(ctx context.Context, r *http.Request) (any, error) {
	in, err := h.chartInput(ctx, r)
	if err != nil {
		return nil, err
	}

	img, err := h.uc.ChartImage(ctx, in)
	if err != nil {
		return nil, err
	}

	return &pkgrouter.File{
		Name:        in.Type + "-chart.png",
		ContentType: "image/png",
		Data:        img,
		Inline:      true,
	}, nil
}

func (h *HTTPEndpoint) Export(ctx context.Context, r *http.Request) (any, error) {
	in := exportRequest{
		DatasetPath: pathParams(ctx),
		Format:      strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))),
	}
	if err := h.validator.Validate(in); err != nil {
		return nil, err
	}

	file, err := h.uc.Export(ctx, usecase.ExportInput{
		SessionID: in.SessionID,
		DatasetID: in.DatasetID,
		Format:    entity.Format(in.Format),
	})
	if err != nil {
		return nil, err
	}

	return &pkgrouter.File{Name: file.Name, ContentType: file.ContentType, Data: file.Data}, nil
}

func (h *HTTPEndpoint) chartInput(ctx context.Context, r *http.Request) (usecase.ChartInput, error) {
	query := r.URL.Query()
	in := chartRequest{
		DatasetPath: pathParams(ctx),
		Type:        strings.ToLower(strings.TrimSpace(query.Get("type"))),
		Column:      query.Get("column"),
	}
	if err := h.validator.Validate(in); err != nil {
		return usecase.ChartInput{}, err
	}

	return usecase.ChartInput{
		SessionID: in.SessionID,
		DatasetID: in.DatasetID,
		Type:      in.Type,
		Column:    in.Column,
	}, nil
}

func pathParams(ctx context.Context) DatasetPath {
	return DatasetPath{
		SessionID: pkgrouter.GetParam(ctx, "session_id"),
		DatasetID: pkgrouter.GetParam(ctx, "dataset_id"),
	}
}

// extractFiles reads every "file" part in order. Parts whose extension is
// not a supported input format are drained and only their size is kept.
func (h *HTTPEndpoint) extractFiles(r *http.Request) ([]entity.UploadedFile, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, pkgerror.NewInvalidFormat()
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var files []entity.UploadedFile
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, h.bodyErr(err)
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		name := part.FileName()
		ext := filepath.Ext(name)
		if _, ok := entity.FormatFromExtension(ext); !ok {
			size, err := io.Copy(io.Discard, part)
			_ = part.Close()
			if err != nil {
				return nil, h.bodyErr(err)
			}
			files = append(files, entity.UploadedFile{Name: name, Extension: ext, Size: size})
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, h.bodyErr(err)
		}

		files = append(files, entity.NewUploadedFile(name, content))
	}

	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("file part is required"))
	}

	return files, nil
}

func (h *HTTPEndpoint) bodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return h.tooLarge()
	}
	return pkgerror.NewInvalidFormat()
}

func (h *HTTPEndpoint) tooLarge() error {
	return pkgerror.NewTooLarge(h.maxUploadBytes)
}
