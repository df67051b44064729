// Package eventlog writes domain events to a structured logger without
// blocking the caller.
package eventlog

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

const DefaultBufferSize = 256

type Sink struct {
	logger  *slog.Logger
	events  chan entity.Event
	dropped atomic.Int64
}

func New(logger *slog.Logger, bufferSize int) *Sink {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Sink{
		logger: logger,
		events: make(chan entity.Event, bufferSize),
	}
}

// Emit queues the event. When the buffer is full the event is dropped.
func (s *Sink) Emit(event entity.Event) {
	select {
	case s.events <- event:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Run logs queued events until ctx is done, then flushes what is left.
func (s *Sink) Run(ctx context.Context) error {
	for {
		select {
		case event := <-s.events:
			s.write(event)
		case <-ctx.Done():
			s.drain()
			return nil
		}
	}
}

func (s *Sink) drain() {
	for {
		select {
		case event := <-s.events:
			s.write(event)
		default:
			if n := s.Dropped(); n > 0 {
				s.logger.Warn("events dropped", slog.Int64("count", n))
			}
			return
		}
	}
}

func (s *Sink) write(event entity.Event) {
	attrs := []slog.Attr{
		slog.String("event_type", event.Type),
		slog.Time("event_time", event.Time),
	}

	if len(event.Data) > 0 {
		keys := make([]string, 0, len(event.Data))
		for k := range event.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		data := make([]any, 0, len(keys))
		for _, k := range keys {
			data = append(data, slog.Any(k, event.Data[k]))
		}
		attrs = append(attrs, slog.Group("data", data...))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("err", event.Err.Error()))
	}

	s.logger.LogAttrs(context.Background(), level, "event", attrs...)
}
