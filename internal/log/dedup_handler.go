package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// DedupHandler wraps an slog.Handler and suppresses consecutive duplicate
// records. Scanning a large library emits the same skip notice for many
// sub-packages in a row (for example when a whole sub-tree fails to load for
// the same missing dependency), and repeating the identical line hundreds of
// times buries the useful diagnostics.
//
// A record is a duplicate when its level, message, and rendered attributes
// match the previous record exactly. When a run of duplicates ends, a single
// summary record reporting the suppressed count is emitted before the new
// record.
type DedupHandler struct {
	// handler is the underlying slog handler that receives records.
	handler slog.Handler

	// mu guards lastKey and suppressed.
	mu sync.Mutex

	// lastKey is the fingerprint of the most recently handled record.
	lastKey string

	// suppressed counts duplicates dropped since the last emitted record.
	suppressed int
}

// NewDedupHandler creates a DedupHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewDedupHandler(handler slog.Handler) *DedupHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &DedupHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *DedupHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle drops the record if it duplicates the previous one, otherwise
// flushes any pending suppression summary and passes the record through.
func (h *DedupHandler) Handle(ctx context.Context, r slog.Record) error {
	key := recordKey(r)

	h.mu.Lock()
	if key == h.lastKey {
		h.suppressed++
		h.mu.Unlock()
		return nil
	}

	suppressed := h.suppressed
	h.suppressed = 0
	h.lastKey = key
	h.mu.Unlock()

	if suppressed > 0 {
		summary := slog.NewRecord(r.Time, r.Level, "previous message repeated", r.PC)
		summary.AddAttrs(slog.Int("count", suppressed))
		if err := h.handler.Handle(ctx, summary); err != nil {
			return err
		}
	}

	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *DedupHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewDedupHandler(h.handler.WithAttrs(attrs))
}

// WithGroup returns a new handler with the given group name.
func (h *DedupHandler) WithGroup(name string) slog.Handler {
	return NewDedupHandler(h.handler.WithGroup(name))
}

// recordKey builds a fingerprint of the record's level, message, and
// attributes. Attribute order matters; callers that log the same event with
// shuffled attributes are treated as distinct, which is acceptable for the
// loader's fixed log call sites.
func recordKey(r slog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\x00%s", r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\x00%s=%s", a.Key, a.Value.String())
		return true
	})
	return b.String()
}

// NewLogger creates a logger for scan diagnostics.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
//
// Skip and enumeration-fault notices are logged at Debug level, so they are
// only visible in verbose mode.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewDedupHandler(textHandler))
}
