// Package logger builds the application's slog loggers, including a
// terminal handler that colors records by level.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// ColorHandler is a slog.Handler that writes human-readable lines with
// level-based coloring. Intended for terminals; pair it with a JSON
// handler for machine consumers.
type ColorHandler struct {
	opts  *slog.HandlerOptions
	attrs []slog.Attr
	group string

	mu  *sync.Mutex
	out io.Writer
}

// NewColorHandler creates a handler writing to out.
func NewColorHandler(out io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelInfo}
	}
	return &ColorHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		out:  out,
	}
}

// Enabled implements slog.Handler
func (h *ColorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle implements slog.Handler
func (h *ColorHandler) Handle(ctx context.Context, r slog.Record) error {
	var color string
	switch {
	case r.Level >= slog.LevelError:
		color = colorRed
	case r.Level >= slog.LevelWarn:
		color = colorYellow
	case r.Level >= slog.LevelInfo:
		color = colorCyan
	default:
		color = colorGray
	}

	var sb strings.Builder
	sb.WriteString(colorGray)
	sb.WriteString(r.Time.Format("15:04:05.000"))
	sb.WriteString(colorReset)
	sb.WriteString(" ")
	sb.WriteString(color)
	sb.WriteString(r.Level.String())
	sb.WriteString(colorReset)
	sb.WriteString(" ")
	if h.group != "" {
		sb.WriteString(h.group)
		sb.WriteString(": ")
	}
	sb.WriteString(r.Message)

	appendAttr := func(a slog.Attr) {
		sb.WriteString(colorGray)
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Any())
		sb.WriteString(colorReset)
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs implements slog.Handler
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	clone.group = name
	return &clone
}

// NewDefaultLogger returns a colored stderr logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from config values: format "json" uses
// slog.JSONHandler, anything else the color handler.
func New(level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}
	return NewDefaultLogger(lvl)
}
