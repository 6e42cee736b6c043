package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

var errMissingEventID = errors.New("missing event id")

// MetricsRecorder turns ingest events into Prometheus series.
type MetricsRecorder struct {
	files    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsRecorder registers the ingest series on reg.
func NewMetricsRecorder(reg prometheus.Registerer) (*MetricsRecorder, error) {
	r := &MetricsRecorder{
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Uploaded files by input format and outcome.",
		}, []string{"format", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Data rows read from successfully ingested files.",
		}, []string{"format"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Time spent turning one file into a table.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
	}

	for _, c := range []prometheus.Collector{r.files, r.rows, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *MetricsRecorder) Handle(ctx context.Context, event entity.IngestEvent) error {
	if event.EventID == "" {
		return errMissingEventID
	}

	format := event.Format
	if format == "" {
		format = "unknown"
	}

	r.files.WithLabelValues(format, event.Outcome).Inc()
	r.duration.WithLabelValues(format).Observe(event.Duration.Seconds())
	if event.Outcome == entity.IngestOutcomeOK {
		r.rows.WithLabelValues(format).Add(float64(event.Rows))
	}

	slog.DebugContext(ctx, "ingest event recorded", "event_id", event.EventID, "format", format, "outcome", event.Outcome)

	return nil
}
