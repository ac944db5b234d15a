package loghandler

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

const timeFormat = "2006/01/02 15:04:05"

const tagKey = "tag"

// CompactHandler writes one line per record: timestamp, optional [tag], level marker for
// WARN and above, message, then key=value attrs. The "tag" attr is rendered as the prefix
// and not repeated. Attrs bound with WithAttrs come before record attrs; groups prefix
// keys as group.key.
type CompactHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	tag    string
	attrs  []slog.Attr
	prefix string
}

// NewCompactHandler returns a handler that writes to w with minimum level.
func NewCompactHandler(w io.Writer, level slog.Leveler) *CompactHandler {
	return &CompactHandler{mu: &sync.Mutex{}, w: w, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as: 2006/01/02 15:04:05 [tag] WARN message key=value ...
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	rest := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	rest = append(rest, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey && h.prefix == "" {
			if a.Value.Kind() == slog.KindString {
				tag = a.Value.String()
			}
			return true
		}
		rest = append(rest, h.qualify(a))
		return true
	})

	buf := make([]byte, 0, 256)
	if !r.Time.IsZero() {
		buf = append(buf, r.Time.Format(timeFormat)...)
		buf = append(buf, ' ')
	}
	if tag != "" {
		buf = append(buf, '[')
		buf = append(buf, tag...)
		buf = append(buf, "] "...)
	}
	if r.Level >= slog.LevelWarn {
		buf = append(buf, r.Level.String()...)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Message...)
	for _, a := range rest {
		buf = appendAttr(buf, a)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler that renders attrs on every record. A "tag" attr
// becomes the default tag.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		if a.Key == tagKey && h.prefix == "" && a.Value.Kind() == slog.KindString {
			h2.tag = a.Value.String()
			continue
		}
		h2.attrs = append(h2.attrs, h.qualify(a))
	}
	return h2
}

// WithGroup returns a handler that prefixes subsequent attr keys with name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *CompactHandler) clone() *CompactHandler {
	h2 := *h
	h2.attrs = append([]slog.Attr(nil), h.attrs...)
	return &h2
}

func (h *CompactHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix == "" {
		return a
	}
	a.Key = h.prefix + a.Key
	return a
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			if a.Key != "" {
				ga.Key = a.Key + "." + ga.Key
			}
			buf = appendAttr(buf, ga)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	s := a.Value.String()
	if needsQuote(s) {
		buf = strconv.AppendQuote(buf, s)
	} else {
		buf = append(buf, s...)
	}
	return buf
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c <= ' ' || c == '=' || c == '"' {
			return true
		}
	}
	return false
}
