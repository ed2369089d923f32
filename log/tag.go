package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// tagHandler writes "[LEVEL] message" followed by the remaining attributes
// in [slog.TextHandler] form. The embedded text handler encodes into buf,
// which every handler derived by WithAttrs or WithGroup shares under mu.
type tagHandler struct {
	text slog.Handler
	buf  *bytes.Buffer
	mu   *sync.Mutex
	w    io.Writer
}

func newTagHandler(w io.Writer, opts *slog.HandlerOptions) *tagHandler {
	inner := *opts
	replace := opts.ReplaceAttr

	inner.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && (a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
			return slog.Attr{}
		}

		if replace != nil {
			return replace(groups, a)
		}

		return a
	}

	buf := new(bytes.Buffer)

	return &tagHandler{
		text: slog.NewTextHandler(buf, &inner),
		buf:  buf,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *tagHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

func (h *tagHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.text.Handle(ctx, r); err != nil {
		return err
	}

	var line strings.Builder

	line.WriteByte('[')
	line.WriteString(strings.ToUpper(Level(r.Level).String()))
	line.WriteString("] ")
	line.WriteString(r.Message)

	if rest := strings.TrimSpace(h.buf.String()); rest != "" {
		line.WriteByte(' ')
		line.WriteString(rest)
	}

	line.WriteByte('\n')

	_, err := io.WriteString(h.w, line.String())

	return err
}

func (h *tagHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &tagHandler{text: h.text.WithAttrs(attrs), buf: h.buf, mu: h.mu, w: h.w}
}

func (h *tagHandler) WithGroup(name string) slog.Handler {
	return &tagHandler{text: h.text.WithGroup(name), buf: h.buf, mu: h.mu, w: h.w}
}
