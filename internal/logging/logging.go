package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// DefaultStackBytes caps the stack trace attached to ERROR records.
const DefaultStackBytes = 4096

// Options configures New.
type Options struct {
	// Level is a slog level name (DEBUG, INFO, WARN, ERROR, optionally with
	// an offset such as "INFO+2"). WARNING is accepted as WARN. Unknown or
	// empty values mean INFO.
	Level string
	// Service is attached to every record as the "service" attribute when set.
	Service string
	// StackBytes caps the stack trace on ERROR records. Zero means
	// DefaultStackBytes; a negative value disables stack traces.
	StackBytes int
}

// Setup installs a JSON logger on stdout as the slog default for the named
// service. LOG_LEVEL selects the level.
func Setup(service string) {
	slog.SetDefault(New(os.Stdout, Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Service: service,
	}))
}

// New returns a JSON logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: true,
	})

	size := opts.StackBytes
	if size == 0 {
		size = DefaultStackBytes
	}
	if size > 0 {
		h = &stackHandler{Handler: h, size: size}
	}

	logger := slog.New(h)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	return logger
}

func parseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Fatal logs msg at ERROR through the default logger and exits with status 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

// stackHandler attaches the calling goroutine's stack, truncated to size
// bytes, to records at ERROR and above.
type stackHandler struct {
	slog.Handler
	size int
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, h.size)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stacktrace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithAttrs(attrs), size: h.size}
}

func (h *stackHandler) WithGroup(name string) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithGroup(name), size: h.size}
}
