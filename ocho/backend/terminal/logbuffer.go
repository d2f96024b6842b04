package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// logEntry is a single captured log record.
type logEntry struct {
	time    time.Time
	level   slog.Level
	message string
}

// logBuffer is a small thread-safe ring of recent log entries. The terminal
// backend routes slog output here, since writing to stderr would tear up the
// tcell screen.
type logBuffer struct {
	mu      sync.RWMutex
	entries []logEntry
	index   int
	count   int
}

func newLogBuffer(size int) *logBuffer {
	return &logBuffer{entries: make([]logEntry, size)}
}

func (lb *logBuffer) add(entry logEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries[lb.index] = entry
	lb.index = (lb.index + 1) % len(lb.entries)
	if lb.count < len(lb.entries) {
		lb.count++
	}
}

// recent returns up to max entries, newest first.
func (lb *logBuffer) recent(max int) []logEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	n := lb.count
	if max < n {
		n = max
	}
	out := make([]logEntry, n)
	for i := 0; i < n; i++ {
		out[i] = lb.entries[(lb.index-1-i+len(lb.entries))%len(lb.entries)]
	}
	return out
}

// logHandler is a slog.Handler that captures records into a logBuffer.
type logHandler struct {
	buffer *logBuffer
	level  slog.Level
	attrs  []slog.Attr
}

func newLogHandler(buffer *logBuffer, level slog.Level) *logHandler {
	return &logHandler{buffer: buffer, level: level}
}

func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logHandler) Handle(_ context.Context, record slog.Record) error {
	message := record.Message
	for _, a := range h.attrs {
		message += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		message += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	h.buffer.add(logEntry{
		time:    record.Time,
		level:   record.Level,
		message: message,
	})
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *logHandler) WithGroup(_ string) slog.Handler {
	return h
}

func formatLogEntry(entry logEntry) string {
	return fmt.Sprintf("%s %s %s",
		entry.time.Format("15:04:05"),
		entry.level.String(),
		entry.message)
}
