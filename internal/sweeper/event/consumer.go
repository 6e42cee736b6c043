package event

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

const (
	// DefaultWorkers is the pool size used when ConsumerConfig.Workers is not positive.
	DefaultWorkers = 2
	// seenEvents bounds how many event IDs are remembered for deduplication.
	seenEvents = 4096
)

type Handler interface {
	Handle(ctx context.Context, event entity.IngestEvent) error
}

// Runner starts background work and waits for it. It must allow at least
// as many concurrent tasks as there are workers.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
	Wait() error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Consumer drains the bus with a pool of workers, retrying failed handler
// calls with exponential backoff and skipping events it has already seen.
type Consumer struct {
	bus         *Bus
	handler     Handler
	runner      Runner
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        *lru.Cache[string, struct{}]
}

func NewConsumer(bus *Bus, handler Handler, runner Runner, cfg ConsumerConfig) *Consumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	//nolint:errcheck // size is a positive constant
	seen, _ := lru.New[string, struct{}](seenEvents)

	return &Consumer{
		bus:         bus,
		handler:     handler,
		runner:      runner,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		seen:        seen,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.runner.Go(ctx, c.worker)
	}
}

// Stop closes the bus and waits until the queued events are handled.
func (c *Consumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan error, 1)
	go func() {
		done <- c.runner.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) worker(ctx context.Context) error {
	for event := range c.bus.Subscribe() {
		c.processEvent(context.WithoutCancel(ctx), event)
	}
	return nil
}

func (c *Consumer) processEvent(ctx context.Context, event entity.IngestEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" {
		if found, _ := c.seen.ContainsOrAdd(event.EventID, struct{}{}); found {
			slog.InfoContext(ctx, "skip duplicate ingest event", "event_id", event.EventID, "session_id", event.SessionID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(ctx, event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.ErrorContext(ctx, "failed to handle ingest event after retries", "event_id", event.EventID, "session_id", event.SessionID, "error", err)
			return
		}

		if !sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
	return true
}
