package event

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

type handlerFunc func(ctx context.Context, event entity.IngestEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.IngestEvent) error {
	return h(ctx, event)
}

func TestConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.IngestEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewConsumer(bus, handler, pkgroutine.NewManager(1), ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start(context.Background())

	event := entity.IngestEvent{EventID: "evt-1", SessionID: "session-1"}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestBusRejectsAfterClose(t *testing.T) {
	bus := NewBus(0)
	bus.Close()
	bus.Close()

	if err := bus.Publish(context.Background(), entity.IngestEvent{}); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("Publish() err = %v, want ErrBusClosed", err)
	}
}

func TestBusPublishHonorsContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.IngestEvent{EventID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if bus.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", bus.Pending())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := bus.Publish(ctx, entity.IngestEvent{EventID: "b"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Publish() err = %v, want deadline exceeded", err)
	}
}

func TestConsumerStopDrainsQueue(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := NewMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewMetricsRecorder: %v", err)
	}

	bus := NewBus(8)
	consumer := NewConsumer(bus, recorder, pkgroutine.NewManager(2), ConsumerConfig{Workers: 2})

	events := []entity.IngestEvent{
		{EventID: "1", Format: "csv", Outcome: entity.IngestOutcomeOK, Rows: 10, Duration: time.Millisecond},
		{EventID: "2", Format: "csv", Outcome: entity.IngestOutcomeOK, Rows: 5, Duration: time.Millisecond},
		{EventID: "3", Format: "pdf", Outcome: "NO_TABULAR_DATA", Duration: time.Millisecond},
		{EventID: "4", Format: "", Outcome: "UNSUPPORTED_FORMAT"},
	}
	for _, ev := range events {
		if err := bus.Publish(context.Background(), ev); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	consumer.Start(context.Background())
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	expected := `
# HELP datasweeper_ingest_files_total Uploaded files by input format and outcome.
# TYPE datasweeper_ingest_files_total counter
datasweeper_ingest_files_total{format="csv",outcome="OK"} 2
datasweeper_ingest_files_total{format="pdf",outcome="NO_TABULAR_DATA"} 1
datasweeper_ingest_files_total{format="unknown",outcome="UNSUPPORTED_FORMAT"} 1
# HELP datasweeper_ingest_rows_total Data rows read from successfully ingested files.
# TYPE datasweeper_ingest_rows_total counter
datasweeper_ingest_rows_total{format="csv"} 15
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"datasweeper_ingest_files_total", "datasweeper_ingest_rows_total"); err != nil {
		t.Fatalf("metrics mismatch: %v", err)
	}
}

func TestMetricsRecorderRejectsMissingID(t *testing.T) {
	recorder, err := NewMetricsRecorder(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetricsRecorder: %v", err)
	}

	if err := recorder.Handle(context.Background(), entity.IngestEvent{}); !errors.Is(err, errMissingEventID) {
		t.Fatalf("Handle() err = %v, want errMissingEventID", err)
	}
}
