package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one coloured line per record: time, level, message and the
// attributes as sorted key=value pairs.
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		threshold = h.opts.SlogOpts.Level.Level()
	}
	return level >= threshold
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level <= slog.LevelDebug:
		level = color.MagentaString(level)
	case r.Level <= slog.LevelInfo:
		level = color.BlueString(level)
	case r.Level <= slog.LevelWarn:
		level = color.YellowString(level)
	default:
		level = color.RedString(level)
	}

	fields := map[string]string{}
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.prefix+a.Key] = a.Value.String()
		return true
	})
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = color.WhiteString(k) + "=" + fields[k]
	}

	line := fmt.Sprintf("[%s] %s %s", r.Time.Format("15:04:05.000"), level, color.CyanString(r.Message))
	if len(pairs) > 0 {
		line += " " + strings.Join(pairs, " ")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		out.attrs = append(out.attrs, a)
	}
	return &out
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}
