package eventlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err == nil {
			records = append(records, record)
		}
	}
	return records
}

func newTestSink(bufferSize int) (*Sink, *syncBuffer) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger, bufferSize), out
}

func TestSink_Run(t *testing.T) {
	sink, out := newTestSink(8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sink.Run(ctx)
	}()

	sink.Emit(entity.Event{
		Type: entity.EventURLCreated,
		Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Data: map[string]any{"shortcode": "abcd", "validity": 30},
	})
	sink.Emit(entity.Event{
		Type: entity.EventShortCodeExists,
		Data: map[string]any{"shortcode": "abcd"},
		Err:  entity.ErrShortCodeExists,
	})

	assert.Eventually(t, func() bool {
		return len(out.lines()) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	records := out.lines()
	require.Len(t, records, 2)

	assert.Equal(t, "INFO", records[0]["level"])
	assert.Equal(t, entity.EventURLCreated, records[0]["event_type"])
	assert.Equal(t, map[string]any{"shortcode": "abcd", "validity": float64(30)}, records[0]["data"])

	assert.Equal(t, "WARN", records[1]["level"])
	assert.Equal(t, entity.EventShortCodeExists, records[1]["event_type"])
	assert.Equal(t, entity.ErrShortCodeExists.Error(), records[1]["err"])
}

func TestSink_EmitDoesNotBlock(t *testing.T) {
	sink, _ := newTestSink(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			sink.Emit(entity.Event{Type: entity.EventURLRedirect})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}

	assert.Equal(t, int64(8), sink.Dropped())
}

func TestSink_RunDrainsOnShutdown(t *testing.T) {
	sink, out := newTestSink(4)

	for i := 0; i < 3; i++ {
		sink.Emit(entity.Event{Type: entity.EventStatsAccessed})
	}
	sink.Emit(entity.Event{Type: entity.EventURLCreated})
	sink.Emit(entity.Event{Type: entity.EventURLCreated})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, sink.Run(ctx))

	records := out.lines()
	require.Len(t, records, 5)
	assert.Equal(t, "events dropped", records[4]["msg"])
	assert.Equal(t, float64(1), records[4]["count"])
}

func TestSink_DefaultBufferSize(t *testing.T) {
	sink := New(slog.Default(), 0)

	assert.Equal(t, DefaultBufferSize, cap(sink.events))
}

func TestSink_ErrorOnly(t *testing.T) {
	sink, out := newTestSink(1)

	sink.Emit(entity.Event{Type: entity.EventSweepFailed, Err: errors.New("boom")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, sink.Run(ctx))

	records := out.lines()
	require.Len(t, records, 1)
	assert.Equal(t, "boom", records[0]["err"])
	assert.NotContains(t, records[0], "data")
}
