package sweeper

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgvalidator"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/event"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/inbound"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/ingest"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/store"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Router    *pkgrouter.Router
	Registry  prometheus.Registerer
	Validator *pkgvalidator.Validator
	Context   context.Context
	ID        pkguid.StringID
	DatasetID pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("sweeper: config and router are required")
	}

	if dep.Context == nil {
		dep.Context = context.Background()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Validator == nil {
		dep.Validator = pkgvalidator.New()
	}
	if dep.Registry == nil {
		dep.Registry = prometheus.NewRegistry()
	}

	recorder, err := event.NewMetricsRecorder(dep.Registry)
	if err != nil {
		return nil, err
	}

	cfg := dep.Config
	bus := event.NewBus(int(cfg.GetInt("events.buffer")))
	workers := int(cfg.GetInt("events.workers"))
	if workers < 1 {
		workers = event.DefaultWorkers
	}
	// dedicated manager: workers exit only when the bus is closed
	consumer := event.NewConsumer(bus, recorder, pkgroutine.NewManager(workers), event.ConsumerConfig{
		Workers:     workers,
		MaxRetries:  int(cfg.GetInt("events.max_retries")),
		BaseBackoff: cfg.GetDuration("events.base_backoff"),
	})
	consumer.Start(dep.Context)

	storage := store.NewSessionStore(int(cfg.GetInt("session.max")), cfg.GetDuration("session.ttl"))

	uc := usecase.New(usecase.Dependency{
		Store:       storage,
		Ingester:    ingest.New(),
		Events:      bus,
		SessionID:   dep.ID,
		DatasetID:   dep.DatasetID,
		PreviewRows: int(cfg.GetInt("preview.rows")),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Validator, inbound.Config{
		MaxUploadBytes: cfg.GetSize("upload.max_bytes"),
	})

	return consumer.Stop, nil
}
