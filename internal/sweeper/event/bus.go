package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus is a buffered in-process queue of ingest events.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.IngestEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.IngestEvent, buffer),
	}
}

// Publish enqueues event, blocking while the buffer is full.
func (b *Bus) Publish(ctx context.Context, event entity.IngestEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.IngestEvent {
	return b.ch
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	return len(b.ch)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
